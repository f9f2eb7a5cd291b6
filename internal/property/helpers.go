package property

import "attrinfer/pkg/infer"

// firstMemberPrefer is the field-level preferrer shared by the phone and
// owner_name fields in inferrer.go: once sources have already picked their own representative raw,
// the field just needs to pick which source's representative wins a
// merged group, and "the first one declared" is the simplest deterministic
// rule that doesn't discard information a source worked to normalize.
func firstMemberPrefer(_ *infer.Context[*Property], _ any, members []any) (any, error) {
	return members[0], nil
}
