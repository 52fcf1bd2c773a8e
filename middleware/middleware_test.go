package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tripplanner/utils"
)

func TestCORSPreflight(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{
		AllowedOrigins:   []string{"https://trips.example/"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST"},
		MaxAge:           600,
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	tests := []struct {
		name        string
		origin      string
		allowOrigin string
		maxAge      string
	}{
		{"allowed origin", "https://trips.example", "https://trips.example", "600"},
		{"other origin", "https://evil.example", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodOptions, "/", nil)
			req.Header.Set(fiber.HeaderOrigin, tt.origin)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusNoContent {
				t.Errorf("expected 204, got %d", resp.StatusCode)
			}
			if got := resp.Header.Get(fiber.HeaderAccessControlAllowOrigin); got != tt.allowOrigin {
				t.Errorf("allow-origin: expected %q, got %q", tt.allowOrigin, got)
			}
			if got := resp.Header.Get(fiber.HeaderAccessControlMaxAge); got != tt.maxAge {
				t.Errorf("max-age: expected %q, got %q", tt.maxAge, got)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return utils.NewConflictError(utils.CodeTimeConflict, "overlaps").WithDetails(fiber.Map{"conflicts": []int{1}})
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return utils.NewInternalError("failed to load", errors.New("connection refused on 10.0.0.3"))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	tests := []struct {
		path       string
		status     int
		code       string
		message    string
		hasDetails bool
	}{
		{"/conflict", fiber.StatusConflict, utils.CodeTimeConflict, "overlaps", true},
		{"/internal", fiber.StatusInternalServerError, utils.CodeInternal, "internal server error", false},
		{"/fiber", fiber.StatusRequestEntityTooLarge, utils.CodeValidation, "too big", false},
		{"/plain", fiber.StatusInternalServerError, utils.CodeInternal, "internal server error", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, resp.StatusCode)
			}

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body["code"] != tt.code || body["error"] != tt.message {
				t.Errorf("unexpected body %v", body)
			}
			if _, ok := body["details"]; ok != tt.hasDetails {
				t.Errorf("details present=%v, expected %v", ok, tt.hasDetails)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		header  string
		want    string
		wantErr bool
	}{
		{"cookie wins", "from-cookie", "Bearer from-header", "from-cookie", false},
		{"bearer header", "", "Bearer abc.def", "abc.def", false},
		{"lowercase scheme", "", "bearer abc.def", "abc.def", false},
		{"missing", "", "", "", true},
		{"wrong scheme", "", "Basic dXNlcg==", "", true},
		{"empty bearer", "", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				token, err := tokenFromRequest(c)
				if tt.wantErr {
					if !utils.IsKind(err, utils.KindUnauthenticated) {
						t.Errorf("expected unauthenticated error, got %v", err)
					}
					return nil
				}
				if err != nil || token != tt.want {
					t.Errorf("expected %q, got %q (%v)", tt.want, token, err)
				}
				return nil
			})

			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, "jwt="+tt.cookie)
			}
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if _, err := app.Test(req); err != nil {
				t.Fatalf("request failed: %v", err)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestIDFrom(c)) })

	const supplied = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{"generated", "", false},
		{"proxy supplied", supplied, true},
		{"garbage replaced", "<script>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}

			got := resp.Header.Get(HeaderRequestID)
			if tt.reused && got != supplied {
				t.Errorf("expected supplied id, got %q", got)
			}
			if !tt.reused && (got == "" || got == tt.header) {
				t.Errorf("expected a fresh id, got %q", got)
			}
		})
	}
}
