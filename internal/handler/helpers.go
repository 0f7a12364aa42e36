package handler

import (
	"errors"
	"strings"

	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// bindingErrors flattens gin binding failures into the envelope's
// field-error list.
func bindingErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out = append(out, field+" is required")
		case "email":
			out = append(out, field+" is invalid")
		case "min":
			out = append(out, field+" must be at least "+fe.Param()+" char")
		case "max":
			out = append(out, field+" must be at max "+fe.Param()+" char")
		case "oneof":
			out = append(out, field+" must be one of "+fe.Param())
		default:
			out = append(out, field+" is invalid")
		}
	}
	return out
}

func parseUUIDParam(c *gin.Context, name, message string) (uuid.UUID, *response.Error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, response.BadRequest(message)
	}
	return id, nil
}

// mustUUID is for values already checked by a binding:"uuid" tag.
func mustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

func findUserByIDString(c *gin.Context, users repository.UserRepositoryInterface, idStr string) (*model.User, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, nil
	}
	return users.GetByID(c.Request.Context(), id)
}
