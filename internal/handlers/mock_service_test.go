package handlers

import (
	"context"
	"net/http"

	"smoking_chamber/internal/display"
	"smoking_chamber/internal/input"
	"smoking_chamber/internal/models"
	"smoking_chamber/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMonitoring struct {
	state models.ChamberState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.ChamberState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp  []models.ChamberEvent
	err   error
	calls []service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ChamberEvent, error) {
	m.calls = append(m.calls, f)
	return m.resp, m.err
}

func (m *mockEventLog) last() service.LogFilter {
	if len(m.calls) == 0 {
		return service.LogFilter{}
	}
	return m.calls[len(m.calls)-1]
}

type mockPrograms struct {
	programs []models.SmokingProgram
	err      error

	created     []models.SmokingProgram
	updatedName string
	updated     models.SmokingProgram
	deleted     []string
}

func (m *mockPrograms) ListPrograms(ctx context.Context) ([]models.SmokingProgram, error) {
	return m.programs, m.err
}
func (m *mockPrograms) GetProgram(ctx context.Context, name string) (models.SmokingProgram, error) {
	if m.err != nil {
		return models.SmokingProgram{}, m.err
	}
	for _, p := range m.programs {
		if p.Name == name {
			return p, nil
		}
	}
	return models.SmokingProgram{}, service.ErrProgramNotFound
}
func (m *mockPrograms) CreateProgram(ctx context.Context, p models.SmokingProgram) error {
	m.created = append(m.created, p)
	return m.err
}
func (m *mockPrograms) UpdateProgram(ctx context.Context, name string, p models.SmokingProgram) error {
	m.updatedName = name
	m.updated = p
	return m.err
}
func (m *mockPrograms) DeleteProgram(ctx context.Context, name string) error {
	m.deleted = append(m.deleted, name)
	return m.err
}

type mockPanel struct {
	pressed  []input.Event
	pressErr error
	rows     []display.Row
}

func (m *mockPanel) Press(ev input.Event) error {
	if m.pressErr != nil {
		return m.pressErr
	}
	m.pressed = append(m.pressed, ev)
	return nil
}
func (m *mockPanel) Frame() []display.Row { return m.rows }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request, token string) *http.Request {
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
