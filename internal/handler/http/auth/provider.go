package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"
)

// Credentials are the username and password of a login attempt.
type Credentials struct {
	Username string
	Password string
}

// account binds one environment credential pair to a role.
type account struct {
	userEnv string
	passEnv string
	role    string
}

// envAccounts lists the credential pairs the provider accepts. The admin
// pair is mandatory; the manager and user pairs are optional.
var envAccounts = []account{
	{"ADMIN_USER", "ADMIN_USER_PASSWORD", RoleAdmin},
	{"MANAGER_USER", "MANAGER_USER_PASSWORD", RoleManager},
	{"MEMBER_USER", "MEMBER_USER_PASSWORD", RoleUser},
}

// EnvProvider authenticates against credential pairs held in environment
// variables, one pair per role.
type EnvProvider struct {
	minPasswordLength int
	weakPasswords     []string
}

// NewEnvProvider creates a provider enforcing the given password policy.
func NewEnvProvider(minPasswordLength int, weakPasswords []string) *EnvProvider {
	return &EnvProvider{
		minPasswordLength: minPasswordLength,
		weakPasswords:     weakPasswords,
	}
}

// Authenticate validates the credentials and returns the matched role.
// Comparisons are constant-time to avoid leaking which part mismatched.
func (p *EnvProvider) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	if creds.Username == "" || creds.Password == "" {
		return "", fmt.Errorf("credentials must not be empty")
	}
	if len(creds.Password) < p.minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", p.minPasswordLength)
	}
	for _, weak := range p.weakPasswords {
		if creds.Password == weak || strings.HasPrefix(creds.Password, weak) {
			return "", fmt.Errorf("weak password detected")
		}
	}

	for _, acct := range envAccounts {
		user := os.Getenv(acct.userEnv)
		pass := os.Getenv(acct.passEnv)
		if user == "" {
			continue
		}
		userMatch := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(user)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(pass)) == 1
		if userMatch && passMatch {
			return acct.role, nil
		}
	}

	return "", fmt.Errorf("invalid credentials")
}
