package claims

import (
	"encoding/json"

	jwt "github.com/dgrijalva/jwt-go"
)

// User is the identity carried inside a signed token. TenantID is encoded as
// null when the user has no tenant yet.
type User struct {
	ID       string  `json:"id"`
	TenantID *string `json:"tenantId"`
	Name     string  `json:"name,omitempty"`
	Email    string  `json:"email,omitempty"`
	Image    string  `json:"image,omitempty"`

	tenantSet bool
}

// TenantSet reports whether the decoded payload had a tenantId key at all,
// null included.
func (u User) TenantSet() bool {
	return u.tenantSet
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	*u = User(p)
	_, u.tenantSet = keys["tenantId"]
	return nil
}

type Claims struct {
	User User `json:"user"`
	jwt.StandardClaims
}
