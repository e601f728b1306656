package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"hackathon-portal/internal/app"
	"hackathon-portal/internal/domain"
	"hackathon-portal/internal/export"
)

// Handler exposes the REST surface: logins, screen rendering, submissions,
// and the admin dashboard (participants, evaluation, exports).
type Handler struct {
	service *app.PortalService
}

func NewHandler(service *app.PortalService) *Handler {
	return &Handler{service: service}
}

// Register wires all routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/admin/login", h.adminLogin)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/screen", h.screen)
	mux.HandleFunc("GET /api/problems", h.problems)
	mux.HandleFunc("POST /api/submissions", h.submit)
	mux.HandleFunc("GET /api/admin/participants", h.participants)
	mux.HandleFunc("GET /api/admin/participants/{username}", h.participant)
	mux.HandleFunc("PUT /api/admin/participants/{username}/problems/{id}/evaluation", h.evaluate)
	mux.HandleFunc("GET /api/admin/export.xlsx", h.exportWorkbook)
	mux.HandleFunc("GET /api/admin/export.json", h.exportJSON)
}

const tokenHeader = "X-Session-Token"

type loginRequest struct {
	Username string `json:"username"`
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Token  string     `json:"token"`
	Screen app.Screen `json:"screen"`
}

type submitRequest struct {
	ProblemID int    `json:"problemId"`
	Solution  string `json:"solution"`
}

type evaluateRequest struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	session, err := h.service.LoginParticipant(r.Context(), req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	screen, err := h.service.Render(r.Context(), session.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: session.Token, Screen: screen})
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	session, err := h.service.LoginAdmin(r.Context(), req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:  session.Token,
		Screen: app.Screen{Kind: app.ScreenAdmin, Username: session.Username},
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), r.Header.Get(tokenHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) screen(w http.ResponseWriter, r *http.Request) {
	screen, err := h.service.Render(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (h *Handler) problems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.service.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, problems)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission payload")
		return
	}
	screen, err := h.service.SubmitSolution(r.Context(), r.Header.Get(tokenHeader), req.ProblemID, req.Solution)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (h *Handler) participants(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Participants(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) participant(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Participant(r.Context(), r.Header.Get(tokenHeader), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	problemID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid problem id")
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid evaluation payload")
		return
	}
	err = h.service.Evaluate(r.Context(), r.Header.Get(tokenHeader),
		r.PathValue("username"), problemID, req.Score, req.Feedback)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Snapshot(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	problems, err := h.service.Catalog(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	data, err := export.Workbook(doc, problems)
	if err != nil {
		log.Printf("workbook export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="hackathon_submissions.xlsx"`)
	w.Write(data)
}

func (h *Handler) exportJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Snapshot(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	data, err := export.RawJSON(doc)
	if err != nil {
		log.Printf("json export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="user_data.json"`)
	w.Write(data)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProblemNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrCatalogNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrScoreOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
