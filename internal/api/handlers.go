package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/quizkit/internal/bank"
	"github.com/abhisek/quizkit/internal/grading"
)

type gradeRequest struct {
	Answer    string `json:"answer"`
	Response  string `json:"response"`
	TextCheck bool   `json:"text_check"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// GradeHandler grades {answer, response, text_check} and returns
// {score, verdict, feedback, tips}. The body is read as JSON whatever its
// Content-Type.
func GradeHandler(svc *grading.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}

		res := svc.Grade(r.Context(), req.Answer, req.Response, grading.Options{LexicalOnly: req.TextCheck})
		writeJSON(w, http.StatusOK, res)
	}
}

// ListQuestionsHandler returns the whole question bank.
func ListQuestionsHandler(bankPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := bank.Load(bankPath)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if t := r.URL.Query().Get("type"); t != "" {
			c = filterType(c, bank.Type(t))
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// GetQuestionHandler returns one question by id.
func GetQuestionHandler(bankPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, status, err := lookupQuestion(bankPath, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// GradeQuestionHandler grades {response, text_check} against the reference
// answer of a bank question.
func GradeQuestionHandler(svc *grading.Service, bankPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}

		q, status, err := lookupQuestion(bankPath, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, status, err.Error())
			return
		}

		res := svc.Grade(r.Context(), q.Reference(), req.Response, grading.Options{
			LexicalOnly: req.TextCheck,
			QuestionID:  q.ID,
		})
		writeJSON(w, http.StatusOK, res)
	}
}

// HealthHandler reports liveness and the configured similarity tiers.
func HealthHandler(tiers []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tiers": tiers})
	}
}

var errQuestionNotFound = errors.New("question not found")

func lookupQuestion(bankPath, rawID string) (bank.Question, int, error) {
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return bank.Question{}, http.StatusBadRequest, fmt.Errorf("invalid question id %q", rawID)
	}
	c, err := bank.Load(bankPath)
	if err != nil {
		return bank.Question{}, http.StatusInternalServerError, err
	}
	for _, q := range c {
		if q.ID == id {
			return q, http.StatusOK, nil
		}
	}
	return bank.Question{}, http.StatusNotFound, fmt.Errorf("%w: %d", errQuestionNotFound, id)
}

func filterType(c bank.Collection, t bank.Type) bank.Collection {
	out := bank.Collection{}
	for _, q := range c {
		if q.Type == t {
			out = append(out, q)
		}
	}
	return out
}
