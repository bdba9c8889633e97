package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "alice@example.com", false},
		{"valid with plus", "alice+workshops@example.com", false},
		{"valid subdomain", "alice@mail.example.co", false},
		{"empty", "", true},
		{"missing at", "alice.example.com", true},
		{"missing domain", "alice@", true},
		{"missing tld", "alice@example", true},
		{"spaces", "alice @example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Email(tc.email)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Str0ng!pass", ""},
		{"empty", "", "required"},
		{"too short", "Ab1!xyz", "at least 8"},
		{"too long", "Ab1!" + strings.Repeat("x", 128), "less than 128"},
		{"no uppercase", "str0ng!pass", "uppercase"},
		{"no lowercase", "STR0NG!PASS", "lowercase"},
		{"no digit", "Strong!pass", "number"},
		{"no special", "Str0ngpass", "special"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Password(tc.password)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestUserName(t *testing.T) {
	assert.NoError(t, UserName("Alice"))
	assert.NoError(t, UserName("  Alice  "))
	assert.Error(t, UserName(""))
	assert.Error(t, UserName("   "))
	assert.Error(t, UserName(strings.Repeat("a", 101)))
	assert.NoError(t, UserName(strings.Repeat("a", 100)))
}

func TestHTMLContent(t *testing.T) {
	assert.NoError(t, HTMLContent(""))
	assert.NoError(t, HTMLContent(strings.Repeat("x", MaxHTMLContentBytes)))
	assert.Error(t, HTMLContent(strings.Repeat("x", MaxHTMLContentBytes+1)))
}

func TestStruct(t *testing.T) {
	type payload struct {
		Title string `validate:"required,max=200"`
	}

	assert.NoError(t, Struct(payload{Title: "Intro to Go"}))

	err := Struct(payload{})
	assert.ErrorContains(t, err, "Title")
	assert.ErrorContains(t, err, "required")
}
