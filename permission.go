package statetree

import "fmt"

// Permission is a two-bit capability set controlling field access. The zero
// value grants nothing.
type Permission uint8

const (
	// PermissionNone forbids both reading and writing.
	PermissionNone Permission = 0
	// PermissionRead grants read capability.
	PermissionRead Permission = 1 << 0
	// PermissionWrite grants write capability.
	PermissionWrite Permission = 1 << 1
	// PermissionReadWrite grants both capabilities.
	PermissionReadWrite = PermissionRead | PermissionWrite
)

// DefaultPolicy is the policy applied to fields of a freshly constructed
// node that carry no explicit permission.
const DefaultPolicy = PermissionReadWrite

// CanRead reports whether the permission includes read capability.
func (p Permission) CanRead() bool {
	return p&PermissionRead != 0
}

// CanWrite reports whether the permission includes write capability.
func (p Permission) CanWrite() bool {
	return p&PermissionWrite != 0
}

// String returns the short token form: "none", "r", "w" or "rw".
func (p Permission) String() string {
	switch p & PermissionReadWrite {
	case PermissionRead:
		return "r"
	case PermissionWrite:
		return "w"
	case PermissionReadWrite:
		return "rw"
	default:
		return "none"
	}
}

// ParsePermission converts a short token into the corresponding Permission.
// Accepted tokens are "none", "r", "w", "rw" and "wr".
func ParsePermission(token string) (Permission, error) {
	switch token {
	case "none", "":
		return PermissionNone, nil
	case "r":
		return PermissionRead, nil
	case "w":
		return PermissionWrite, nil
	case "rw", "wr":
		return PermissionReadWrite, nil
	default:
		return PermissionNone, fmt.Errorf("statetree: unknown permission token %q", token)
	}
}

// MarshalText implements encoding.TextMarshaler using the token form.
func (p Permission) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParsePermission.
func (p *Permission) UnmarshalText(text []byte) error {
	parsed, err := ParsePermission(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
