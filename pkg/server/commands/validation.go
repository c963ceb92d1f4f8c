package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/canopyhq/canopy/pkg/password"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

func validateNodeFields(name string, description *string) error {
	if strings.TrimSpace(name) == "" {
		return serverErrors.ValidationError(fmt.Errorf("name must not be blank"))
	}
	if utf8.RuneCountInString(name) > storage.MaxNodeNameLength {
		return serverErrors.ValidationError(fmt.Errorf("name must be at most %d characters", storage.MaxNodeNameLength))
	}
	if description != nil && utf8.RuneCountInString(*description) > storage.MaxNodeDescriptionLength {
		return serverErrors.ValidationError(fmt.Errorf("description must be at most %d characters", storage.MaxNodeDescriptionLength))
	}
	return nil
}

func validateCredentials(username, plain string) error {
	if strings.TrimSpace(username) == "" {
		return serverErrors.ValidationError(fmt.Errorf("username must not be blank"))
	}
	if utf8.RuneCountInString(username) > storage.MaxUsernameLength {
		return serverErrors.ValidationError(fmt.Errorf("username must be at most %d characters", storage.MaxUsernameLength))
	}
	if plain == "" {
		return serverErrors.ValidationError(fmt.Errorf("password must not be empty"))
	}
	if len(plain) > password.MaxLength {
		return serverErrors.ValidationError(fmt.Errorf("password must be at most %d bytes", password.MaxLength))
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return serverErrors.ValidationError(fmt.Errorf("id must be a positive integer"))
	}
	return nil
}
