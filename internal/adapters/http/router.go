package httpadapter

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
	"github.com/avoskres/plainlegal/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	ingest        ports.DocumentIngestor
	reader        ports.DocumentReader
	summarizer    ports.DocumentSummarizer
	resimplifier  ports.Resimplifier
	riskReporter  ports.RiskReporter
	qa            ports.QuestionAnswerer
	conversations ports.ConversationManager
	deadlines     ports.DeadlineReporter
	metrics       *metrics.HTTPServerMetrics
}

func NewRouter(
	ingest ports.DocumentIngestor,
	reader ports.DocumentReader,
	summarizer ports.DocumentSummarizer,
	resimplifier ports.Resimplifier,
	riskReporter ports.RiskReporter,
	qa ports.QuestionAnswerer,
	conversations ports.ConversationManager,
	deadlines ports.DeadlineReporter,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		ingest:        ingest,
		reader:        reader,
		summarizer:    summarizer,
		resimplifier:  resimplifier,
		riskReporter:  riskReporter,
		qa:            qa,
		conversations: conversations,
		deadlines:     deadlines,
		metrics:       m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)
	mux.HandleFunc("GET /v1/documents/{id}/status", rt.documentStatus)
	mux.HandleFunc("GET /v1/documents/{id}/clauses", rt.documentClauses)
	mux.HandleFunc("GET /v1/documents/{id}/summary", rt.documentSummary)
	mux.HandleFunc("GET /v1/documents/{id}/risks", rt.documentRisks)
	mux.HandleFunc("DELETE /v1/documents/{id}", rt.deleteDocument)
	mux.HandleFunc("POST /v1/documents/{id}/clauses/{clauseID}/simplify", rt.resimplifyClause)

	mux.HandleFunc("POST /v1/qa/ask", rt.ask)
	mux.HandleFunc("GET /v1/qa/suggestions", rt.suggestions)

	mux.HandleFunc("GET /v1/conversations", rt.listConversations)
	mux.HandleFunc("GET /v1/conversations/{id}/history", rt.conversationHistory)
	mux.HandleFunc("DELETE /v1/conversations/{id}", rt.deleteConversation)

	mux.HandleFunc("GET /v1/calendar/deadlines", rt.calendarDeadlines)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ownerID reads the authenticated user from the X-User-Id header. An
// upstream gateway owns real authentication; the api only scopes data.
func ownerID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := ownerID(r)
	if owner == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return owner, true
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(r.Context(), ports.UploadInput{
		OwnerID:  owner,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Data:     file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, strings.ToLower(filepath.Ext(fileHeader.Filename)))
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	docs, err := rt.reader.List(r.Context(), owner, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) getDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	doc, err := rt.reader.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	clauses, err := rt.reader.Clauses(r.Context(), owner, doc.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if clauses == nil {
		clauses = []domain.Clause{}
	}

	typeCounts := map[domain.ClauseType]int{}
	riskCounts := map[domain.RiskLevel]int{}
	for _, clause := range clauses {
		typeCounts[clause.ClauseType]++
		riskCounts[clause.RiskLevel]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"document": doc,
		"clauses":  clauses,
		"analytics": map[string]any{
			"clause_count": len(clauses),
			"by_type":      typeCounts,
			"by_risk":      riskCounts,
		},
	})
}

func (rt *Router) documentStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	doc, err := rt.reader.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     doc.ID,
		"status": doc.Status,
		"error":  doc.Error,
	})
}

func (rt *Router) documentClauses(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	clauses, err := rt.reader.Clauses(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	clauseType := strings.TrimSpace(r.URL.Query().Get("type"))
	riskLevel := strings.TrimSpace(r.URL.Query().Get("risk_level"))
	filtered := make([]domain.Clause, 0, len(clauses))
	for _, clause := range clauses {
		if clauseType != "" && string(clause.ClauseType) != clauseType {
			continue
		}
		if riskLevel != "" && string(clause.RiskLevel) != riskLevel {
			continue
		}
		filtered = append(filtered, clause)
	}
	writeJSON(w, http.StatusOK, map[string]any{"clauses": filtered})
}

func (rt *Router) documentSummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	summary, err := rt.summarizer.Summary(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id":  summary.DocumentID,
		"type":         summary.DocType,
		"summary":      summary.Summary,
		"risk_score":   summary.RiskScore,
		"clause_count": summary.ClauseCount,
		"highlights":   summary.Highlights,
		"action_items": summary.ActionItems,
	})
}

func (rt *Router) documentRisks(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	report, err := rt.riskReporter.RiskReport(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) deleteDocument(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := rt.reader.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) resimplifyClause(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req struct {
		Level string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	clause, err := rt.resimplifier.Resimplify(
		r.Context(),
		owner,
		r.PathValue("id"),
		r.PathValue("clauseID"),
		domain.ParseSimplificationLevel(req.Level),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clause)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req struct {
		Question       string `json:"question"`
		DocumentID     string `json:"document_id"`
		ConversationID string `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	answer, err := rt.qa.Ask(r.Context(), ports.AskInput{
		OwnerID:        owner,
		DocumentID:     req.DocumentID,
		ConversationID: req.ConversationID,
		Question:       req.Question,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		scope := "all"
		if req.DocumentID != "" {
			scope = "document"
		}
		rt.metrics.RecordQAObservation(serviceName, scope, answer.ContextUsed, time.Since(start))
	}
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) suggestions(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	questions, err := rt.qa.SuggestedQuestions(r.Context(), owner, r.URL.Query().Get("document_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (rt *Router) listConversations(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	list, err := rt.conversations.ListConversations(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []domain.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": list})
}

func (rt *Router) conversationHistory(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	msgs, err := rt.conversations.History(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (rt *Router) deleteConversation(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := rt.conversations.DeleteConversation(r.Context(), owner, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) calendarDeadlines(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	entries, err := rt.deadlines.Deadlines(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	payload := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		item := map[string]any{
			"document_id":   entry.DocumentID,
			"document_name": entry.DocumentName,
			"section":       entry.Section,
			"description":   entry.Description,
			"urgency":       entry.Urgency,
			"context":       entry.Context,
		}
		if entry.Date != nil {
			item["date"] = entry.Date.Format("2006-01-02")
		}
		payload = append(payload, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"deadlines": payload})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
