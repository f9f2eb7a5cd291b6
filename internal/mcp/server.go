// Package mcp exposes the property inferrer over the Model Context
// Protocol, so an agent can ask for a field's best value or full score
// trail without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"attrinfer/internal/logging"
	"attrinfer/internal/metrics"
	"attrinfer/internal/property"
	"attrinfer/internal/propertydb"
	"attrinfer/pkg/infer"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// requestLogger tags every tool call with its own request ID so a caller can
// correlate a single invocation across log lines.
func requestLogger(component string) *slog.Logger {
	return logging.New(component).With("request_id", uuid.New().String())
}

// Server wraps the MCP SDK server and the propertydb store every tool call
// reads from.
type Server struct {
	MCPServer *sdkmcp.Server

	store *propertydb.Store
	decl  *infer.Declaration[*property.Property]
}

// NewServer creates an MCP server exposing best_value_for/scores_for/
// field_values tools backed by store.
func NewServer(store *propertydb.Store) (*Server, error) {
	decl, err := property.Declare()
	if err != nil {
		return nil, fmt.Errorf("declare property inferrer: %w", err)
	}
	s := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "attrinfer", Version: "dev"}, nil),
		store:     store,
		decl:      decl,
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "best_value_for",
		Description: "Return the highest-scoring inferred value for one field of one parcel, with its score.",
	}, s.handleBestValueFor)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "scores_for",
		Description: "Return the full representative-to-score map for one field of one parcel.",
	}, s.handleScoresFor)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "field_values",
		Description: "Return the best value for every declared field of one parcel.",
	}, s.handleFieldValues)
}

type parcelFieldInput struct {
	ParcelID string `json:"parcel_id" jsonschema:"the parcel identifier to evaluate"`
	Field    string `json:"field" jsonschema:"the declared field name: phone, owner_name, lot_size_acres, or list_price"`
}

type bestValueOutput struct {
	Value any     `json:"value,omitempty"`
	Score float64 `json:"score"`
	Found bool    `json:"found"`
}

func (s *Server) handleBestValueFor(ctx context.Context, _ *sdkmcp.CallToolRequest, input parcelFieldInput) (*sdkmcp.CallToolResult, bestValueOutput, error) {
	logger := requestLogger("mcp-infer")
	started := time.Now()
	ee := infer.NewEntityEvaluator(s.decl, property.New(s.store, input.ParcelID))

	value, ok, err := ee.BestValueFor(input.Field)
	if err != nil {
		metrics.ObserveFieldEvaluation(input.Field, started, false, 0, err)
		logger.Error("best_value_for failed", "parcel_id", input.ParcelID, "field", input.Field, "err", err)
		return nil, bestValueOutput{}, err
	}
	score := 0.0
	if ok {
		scores, err := ee.ScoresFor(input.Field)
		if err == nil {
			score = scores[value]
		}
	}
	metrics.ObserveFieldEvaluation(input.Field, started, ok, score, nil)
	return nil, bestValueOutput{Value: value, Score: score, Found: ok}, nil
}

type scoresForOutput struct {
	Scores map[string]float64 `json:"scores"`
}

func (s *Server) handleScoresFor(ctx context.Context, _ *sdkmcp.CallToolRequest, input parcelFieldInput) (*sdkmcp.CallToolResult, scoresForOutput, error) {
	logger := requestLogger("mcp-infer")
	ee := infer.NewEntityEvaluator(s.decl, property.New(s.store, input.ParcelID))
	scores, err := ee.ScoresFor(input.Field)
	if err != nil {
		logger.Error("scores_for failed", "parcel_id", input.ParcelID, "field", input.Field, "err", err)
		return nil, scoresForOutput{}, err
	}
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		out[fmt.Sprint(k)] = v
	}
	return nil, scoresForOutput{Scores: out}, nil
}

type fieldValuesInput struct {
	ParcelID string `json:"parcel_id" jsonschema:"the parcel identifier to evaluate"`
}

type fieldValuesOutput struct {
	Values map[string]any `json:"values"`
}

func (s *Server) handleFieldValues(ctx context.Context, _ *sdkmcp.CallToolRequest, input fieldValuesInput) (*sdkmcp.CallToolResult, fieldValuesOutput, error) {
	logger := requestLogger("mcp-infer")
	ee := infer.NewEntityEvaluator(s.decl, property.New(s.store, input.ParcelID))
	values, err := ee.FieldValues()
	if err != nil {
		logger.Error("field_values failed", "parcel_id", input.ParcelID, "err", err)
		return nil, fieldValuesOutput{}, err
	}
	return nil, fieldValuesOutput{Values: values}, nil
}
