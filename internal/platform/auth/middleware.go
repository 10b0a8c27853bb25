package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const doctorIDKey = "auth_doctor_id"

// DoctorFinder reports whether a doctor account still exists. Tokens for
// deleted accounts must stop working immediately.
type DoctorFinder interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Middleware requires a valid bearer token and resolves it to a doctor id.
// Every protected operation receives the authenticated doctor's id explicitly
// through DoctorID rather than through ambient request state.
func Middleware(tokens *Tokens, finder DoctorFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			doctorID, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			oid, err := primitive.ObjectIDFromHex(doctorID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			ok, err := finder.Exists(c.Request().Context(), oid)
			if err != nil || !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			c.Set(doctorIDKey, oid)
			return next(c)
		}
	}
}

// DoctorID returns the authenticated doctor's id set by Middleware.
func DoctorID(c echo.Context) primitive.ObjectID {
	id, _ := c.Get(doctorIDKey).(primitive.ObjectID)
	return id
}
