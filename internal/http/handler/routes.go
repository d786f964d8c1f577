package handler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"imagevault/internal/auth"
	"imagevault/internal/http/middleware"
	"imagevault/internal/service"
)

// sessionCookieTTL is the lifetime of the session cookie set at login.
// It is longer than auth.TokenExpiry (24h), so the cookie outlives the
// token it carries.
const sessionCookieTTL = 3 * 24 * time.Hour

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay minimal and free of business logic; everything interesting
// happens in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, accounts service.AccountService, docs service.DocumentService, tokens *auth.TokenService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/signup", Signup(accounts))
	app.Post("/login", Login(accounts))
	app.Post("/imageUpload", UploadImage(docs))
	app.Post("/deleteImage", DeleteImage(docs))

	app.Get("/profile", middleware.Auth(tokens), Profile(accounts))
}

// HealthCheck checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type signupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Signup registers a new user.
func Signup(accounts service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}

		user, err := accounts.Signup(c.UserContext(), service.SignupInput{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFieldsRequired):
				return writeError(c, fiber.StatusForbidden, err.Error())
			case errors.Is(err, service.ErrPasswordMismatch), errors.Is(err, service.ErrEmailTaken):
				return writeError(c, fiber.StatusBadRequest, err.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "user cannot be registered, please try again")
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "user registered successfully",
			"user":    user,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user, persists the issued token, and surfaces it
// both in the JSON body and as an http-only session cookie.
func Login(accounts service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}

		token, user, err := accounts.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFieldsRequired):
				return writeError(c, fiber.StatusBadRequest, err.Error())
			case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrWrongPassword):
				return writeError(c, fiber.StatusUnauthorized, err.Error())
			default:
				return writeError(c, fiber.StatusInternalServerError, "login failure, please try again")
			}
		}

		c.Cookie(&fiber.Cookie{
			Name:     "token",
			Value:    token,
			Expires:  time.Now().Add(sessionCookieTTL),
			HTTPOnly: true,
		})

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "user login success",
			"token":   token,
			"user":    user,
		})
	}
}

// UploadImage accepts a multipart image upload (field name: imageFile) for
// the user named in the userId form value.
func UploadImage(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.FormValue("userId")

		fh, err := c.FormFile("imageFile")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "image file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		url, err := docs.UploadImage(c.UserContext(), userID, f, fh.Filename, fh.Size, ct)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnsupportedType), errors.Is(err, service.ErrUploadFailed):
				return writeError(c, fiber.StatusBadRequest, err.Error())
			default:
				return writeError(c, fiber.StatusBadRequest, "something went wrong")
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":  true,
			"message":  "image upload successful",
			"imageUrl": url,
		})
	}
}

type deleteImageRequest struct {
	UserID     string `json:"userId"`
	DocumentID string `json:"documentId"`
}

// DeleteImage tears down an uploaded image: document record, media object,
// then the user's reference, in that order.
func DeleteImage(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req deleteImageRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request body")
		}

		if err := docs.DeleteImage(c.UserContext(), req.UserID, req.DocumentID); err != nil {
			switch {
			case errors.Is(err, service.ErrDocumentNotFound),
				errors.Is(err, service.ErrMediaDeleteFailed),
				errors.Is(err, service.ErrLinkRemovalFailed):
				return writeError(c, fiber.StatusBadRequest, err.Error())
			default:
				return writeError(c, fiber.StatusBadRequest, "something went wrong")
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "image deleted successfully",
		})
	}
}

// Profile returns the authenticated user's record.
func Profile(accounts service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(middleware.UserIDLocalKey).(string)
		if userID == "" {
			return writeError(c, fiber.StatusUnauthorized, "authentication required")
		}

		user, err := accounts.Profile(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return writeError(c, fiber.StatusNotFound, err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"user":    user,
		})
	}
}
