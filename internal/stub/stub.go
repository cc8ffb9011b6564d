// Package stub is an in-memory helpdesk backend used for local CLI
// development and as the fixture for transport integration tests. It
// serves the same routes and localized wire shapes as the real API.
package stub

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-client/internal/config"
)

const tokenTTL = 8 * time.Hour

// Server is the stub helpdesk backend.
type Server struct {
	app    *fiber.App
	data   *dataset
	secret []byte
	logger *zap.Logger
}

// New builds the stub server with its seeded fixture data.
func New(cfg config.StubConfig, logger *zap.Logger) (*Server, error) {
	data, err := seed(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		data:   data,
		secret: []byte(cfg.JWTSecret),
		logger: logger,
	}
	s.registerRoutes()
	return s, nil
}

// App exposes the underlying fiber app for Listen/Listener/Shutdown.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on the given address until Shutdown.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Shutdown stops the server.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")
	api.Post("/auth/login", s.handleLogin)

	protected := api.Group("", s.requireAuth)
	protected.Get("/tickets", s.handleListTickets)
	protected.Get("/tickets/me", s.handleListMyTickets)
	protected.Get("/tickets/:id", s.handleGetTicket)
	protected.Post("/tickets", s.handleCreateTicket)
	protected.Put("/tickets/:id/classification", s.handleClassify)
	protected.Post("/tickets/:id/attachments", s.handleUploadAttachment)
	protected.Get("/anexos/:id", s.handleDownloadAttachment)
	protected.Post("/tickets/:id/comments", s.handleAddComment)
	protected.Post("/tickets/:id/assign-self", s.handleAssignSelf)
	protected.Post("/tickets/:id/assign/:techId", s.handleAssign)
	protected.Post("/tickets/:id/close", s.handleClose)
	protected.Post("/tickets/:id/reopen", s.handleReopen)

	protected.Get("/categorias", s.handleListCategories)
	protected.Post("/categorias", s.handleCreateCategory)
	protected.Put("/categorias/:id", s.handleUpdateCategory)
	protected.Delete("/categorias/:id", s.handleDeleteCategory)

	protected.Get("/problemas", s.handleListProblems)
	protected.Post("/problemas", s.handleCreateProblem)
	protected.Put("/problemas/:id", s.handleUpdateProblem)
	protected.Delete("/problemas/:id", s.handleDeleteProblem)

	protected.Get("/users/technicians", s.handleListTechnicians)
	protected.Get("/dashboard/stats", s.handleDashboardStats)
}

// issueToken signs an HS256 token carrying the claims the client decodes:
// subject, display name and role.
func (s *Server) issueToken(user *userModel) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Email,
		"name": user.Nome,
		"role": user.Perfil,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(tokenStr string) (*userModel, error) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	subject, _ := claims["sub"].(string)

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	user := s.data.findUser(subject)
	if user == nil {
		return nil, errors.New("unknown subject")
	}
	return user, nil
}

const principalKey = "auth_principal"

// requireAuth validates bearer tokens and loads the caller.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return unauthorized(c, "invalid authorization header")
	}
	user, err := s.parseToken(parts[1])
	if err != nil {
		return unauthorized(c, "invalid token")
	}
	c.Locals(principalKey, user)
	return c.Next()
}

func (s *Server) principal(c *fiber.Ctx) *userModel {
	user, _ := c.Locals(principalKey).(*userModel)
	return user
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var body struct {
		Login string `json:"login"`
		Senha string `json:"senha"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed login payload")
	}

	s.data.mu.Lock()
	user := s.data.findUser(body.Login)
	s.data.mu.Unlock()
	if user == nil {
		return unauthorized(c, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.passwordHash), []byte(body.Senha)); err != nil {
		return unauthorized(c, "invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "token signing failed"})
	}
	return c.JSON(fiber.Map{"token": token})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": message})
}
