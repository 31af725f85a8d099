package validation

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/blog-api/internal/models"
)

// Field limits shared by the store schema and request validation
const (
	MinNameLength     = 3
	MinPasswordLength = 6
	// bcrypt only considers the first 72 bytes of its input
	MaxPasswordLength = 72
	MinTitleLength    = 3
	MaxDateLabel      = 64
)

var errPatchEmpty = validation.NewError("validation_patch_empty", "title or text is required")

// ValidateRegistration trims the input in place and checks name and password
func ValidateRegistration(in *models.RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Password = strings.TrimSpace(in.Password)

	return validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, 0).Error("name must be at least 3 characters"),
		),
		validation.Field(&in.Password,
			validation.Required.Error("password is required"),
			validation.Length(MinPasswordLength, MaxPasswordLength).Error("password must be 6-72 characters"),
		),
	)
}

// ValidateLogin trims the input in place and requires both fields
func ValidateLogin(in *models.LoginInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Password = strings.TrimSpace(in.Password)

	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// ValidateArticle trims the input in place and checks title, text and the date label
func ValidateArticle(in *models.ArticleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)
	in.CreatedAt = strings.TrimSpace(in.CreatedAt)

	return validation.ValidateStruct(in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(MinTitleLength, 0).Error("title must be at least 3 characters"),
		),
		validation.Field(&in.Text, validation.Required.Error("text is required")),
		validation.Field(&in.CreatedAt, validation.RuneLength(0, MaxDateLabel)),
	)
}

// ValidatePatch trims the provided fields in place. At least one of title
// or text must be present and each present field obeys the creation rules.
func ValidatePatch(p *models.ArticlePatch) error {
	trimPtr(p.Title)
	trimPtr(p.Text)
	trimPtr(p.EditedAt)

	if p.Title == nil && p.Text == nil {
		return validation.Errors{"title": errPatchEmpty}
	}

	return validation.ValidateStruct(p,
		validation.Field(&p.Title,
			validation.NilOrNotEmpty.Error("title must not be empty"),
			validation.RuneLength(MinTitleLength, 0).Error("title must be at least 3 characters"),
		),
		validation.Field(&p.Text, validation.NilOrNotEmpty.Error("text must not be empty")),
		validation.Field(&p.EditedAt, validation.RuneLength(0, MaxDateLabel)),
	)
}

// ValidateComment trims the input in place and requires text
func ValidateComment(in *models.CommentInput) error {
	in.Text = strings.TrimSpace(in.Text)
	in.CreatedAt = strings.TrimSpace(in.CreatedAt)

	return validation.ValidateStruct(in,
		validation.Field(&in.Text, validation.Required.Error("text is required")),
		validation.Field(&in.CreatedAt, validation.RuneLength(0, MaxDateLabel)),
	)
}

// IsValidID checks that s is a canonical hyphenated UUID
func IsValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
