package evaluator

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jvasti/new-pkl/pkg/types"
)

// stringProperty resolves a property access on a string receiver. The hash
// and regex properties are recognized but not yet implemented; accessing
// them reports a dedicated error instead of an unknown-property one.
func stringProperty(s, name string, span types.Span) (types.Value, error) {
	switch name {
	case "length":
		return types.Int(len(s)), nil

	case "lastIndex":
		// Index of the last character; -1 for the empty string.
		return types.Int(len(s) - 1), nil

	case "isEmpty":
		return types.Bool(len(s) == 0), nil

	case "isBlank":
		return types.Bool(strings.TrimSpace(s) == ""), nil

	case "base64":
		return types.String(base64.StdEncoding.EncodeToString([]byte(s))), nil

	case "base64Decoded":
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, types.NewError(types.ErrBase64Decode,
				fmt.Sprintf("`%s` is not a valid base64 string", s), span).WithCause(err)
		}
		if !utf8.Valid(decoded) {
			return nil, types.NewError(types.ErrInvalidUTF8,
				"base64 decoded content is not valid UTF-8", span)
		}
		return types.String(decoded), nil

	case "chars":
		out := types.List{}
		for _, r := range s {
			out = append(out, types.Char(r))
		}
		return out, nil

	case "codePoints":
		out := types.List{}
		for _, r := range s {
			out = append(out, types.Int(r))
		}
		return out, nil

	case "md5", "sha1", "sha256", "sha256Int", "isRegex":
		return nil, types.NewError(types.ErrNotYetSupported,
			fmt.Sprintf("String property `%s` is not yet supported", name), span).WithToken(name)

	default:
		return nil, types.NewError(types.ErrUnknownProperty,
			fmt.Sprintf("String does not possess `%s` property", name), span).WithToken(name)
	}
}
