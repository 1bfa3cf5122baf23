package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/avoskres/plainlegal/internal/core/domain"
	"github.com/avoskres/plainlegal/internal/core/ports"
)

type fakeDocumentRepo struct {
	mu       sync.Mutex
	docs     map[string]*domain.Document
	statuses map[string]domain.DocumentStatus
	errorMsg map[string]string
	rawText  map[string]string
	results  map[string]struct {
		docType   string
		summary   string
		riskScore int
	}
}

func newFakeDocumentRepo(docs ...*domain.Document) *fakeDocumentRepo {
	repo := &fakeDocumentRepo{
		docs:     make(map[string]*domain.Document),
		statuses: make(map[string]domain.DocumentStatus),
		errorMsg: make(map[string]string),
		rawText:  make(map[string]string),
		results: make(map[string]struct {
			docType   string
			summary   string
			riskScore int
		}),
	}
	for _, doc := range docs {
		copied := *doc
		repo.docs[doc.ID] = &copied
	}
	return repo
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "fetch document by id", errors.New("no rows"))
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) ListByOwner(_ context.Context, ownerID string, _ int) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocumentRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = status
	r.errorMsg[id] = errMessage
	if doc, ok := r.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (r *fakeDocumentRepo) SaveRawText(_ context.Context, id, rawText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rawText[id] = rawText
	return nil
}

func (r *fakeDocumentRepo) SaveResults(_ context.Context, id, docType, summary string, riskScore int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[id] = struct {
		docType   string
		summary   string
		riskScore int
	}{docType, summary, riskScore}
	if doc, ok := r.docs[id]; ok {
		doc.DocumentType = docType
		doc.Summary = summary
		doc.RiskScore = riskScore
	}
	return nil
}

func (r *fakeDocumentRepo) UpdateSummary(_ context.Context, id, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		doc.Summary = summary
	}
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", errors.New("no rows"))
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) FailStaleProcessing(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

type fakeClauseRepo struct {
	mu           sync.Mutex
	clauses      map[string][]domain.Clause
	withDeadline []domain.Clause
	updated      map[string]string
}

func newFakeClauseRepo() *fakeClauseRepo {
	return &fakeClauseRepo{clauses: make(map[string][]domain.Clause), updated: make(map[string]string)}
}

func (r *fakeClauseRepo) CreateBatch(_ context.Context, clauses []domain.Clause) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, clause := range clauses {
		r.clauses[clause.DocumentID] = append(r.clauses[clause.DocumentID], clause)
	}
	return nil
}

func (r *fakeClauseRepo) ListByDocument(_ context.Context, documentID string) ([]domain.Clause, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Clause(nil), r.clauses[documentID]...), nil
}

func (r *fakeClauseRepo) ListWithDeadlinesByOwner(_ context.Context, _ string) ([]domain.Clause, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Clause(nil), r.withDeadline...), nil
}

func (r *fakeClauseRepo) UpdateSimplified(_ context.Context, id, simplifiedText string, level domain.SimplificationLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated[id] = simplifiedText
	for docID, list := range r.clauses {
		for i := range list {
			if list[i].ID == id {
				list[i].SimplifiedText = simplifiedText
				list[i].SimplificationLevel = level
				r.clauses[docID] = list
			}
		}
	}
	return nil
}

func (r *fakeClauseRepo) DeleteByDocument(_ context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clauses, documentID)
	return nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*domain.Conversation
	messages      map[string][]domain.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*domain.Conversation),
		messages:      make(map[string][]domain.Message),
	}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *conv
	r.conversations[conv.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrConversationNotFound, "fetch conversation", errors.New("no rows"))
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) FindLatestByScope(_ context.Context, ownerID, documentID string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Conversation
	for _, conv := range r.conversations {
		if conv.OwnerID != ownerID || conv.DocumentID != documentID {
			continue
		}
		if latest == nil || conv.UpdatedAt.After(latest.UpdatedAt) {
			latest = conv
		}
	}
	if latest == nil {
		return nil, domain.WrapError(domain.ErrConversationNotFound, "find conversation", errors.New("no rows"))
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeConversationRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Conversation
	for _, conv := range r.conversations {
		if conv.OwnerID == ownerID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) AppendMessage(_ context.Context, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], msg)
	return nil
}

func (r *fakeConversationRepo) ListRecentMessages(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.Message(nil), msgs...), nil
}

func (r *fakeConversationRepo) CountMessages(_ context.Context, conversationID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[conversationID]), nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[id]; !ok {
		return domain.WrapError(domain.ErrConversationNotFound, "delete conversation", errors.New("no rows"))
	}
	delete(r.conversations, id)
	delete(r.messages, id)
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *fakeStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

type fakeQueue struct {
	mu        sync.Mutex
	published []string
	publishFn func(string) error
}

func (q *fakeQueue) PublishDocumentQueued(_ context.Context, documentID string) error {
	if q.publishFn != nil {
		if err := q.publishFn(documentID); err != nil {
			return err
		}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, documentID)
	return nil
}

func (q *fakeQueue) SubscribeDocumentQueued(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) Extract(_ context.Context, _ *domain.Document) (string, error) {
	return e.text, e.err
}

type stubSectioner struct {
	sections []domain.Section
}

func (s *stubSectioner) Split(_ string) []domain.Section {
	return s.sections
}

type stubEntityExtractor struct{}

func (stubEntityExtractor) Extract(_ string) domain.Entities { return domain.Entities{} }

type stubDocTyper struct {
	result string
	err    error
}

func (s *stubDocTyper) ClassifyType(_ context.Context, _, _ string) (string, error) {
	return s.result, s.err
}

type stubAnnotator struct {
	fn func(text string) (domain.Annotation, error)
}

func (s *stubAnnotator) Annotate(_ context.Context, text string) (domain.Annotation, error) {
	return s.fn(text)
}

type stubSimplifier struct {
	simplifyFn    func(text string, clauseType domain.ClauseType, level domain.SimplificationLevel) (string, error)
	summarizeFn   func(docType string, clauses []domain.Clause) (string, error)
	actionItemsFn func(clauses []domain.Clause) ([]string, error)
}

func (s *stubSimplifier) Simplify(_ context.Context, text string, clauseType domain.ClauseType, level domain.SimplificationLevel) (string, error) {
	if s.simplifyFn == nil {
		return "", errors.New("unavailable")
	}
	return s.simplifyFn(text, clauseType, level)
}

func (s *stubSimplifier) Summarize(_ context.Context, docType string, clauses []domain.Clause) (string, error) {
	if s.summarizeFn == nil {
		return "", errors.New("unavailable")
	}
	return s.summarizeFn(docType, clauses)
}

func (s *stubSimplifier) ActionItems(_ context.Context, clauses []domain.Clause) ([]string, error) {
	if s.actionItemsFn == nil {
		return nil, errors.New("unavailable")
	}
	return s.actionItemsFn(clauses)
}

type stubRiskAnalyzer struct {
	analyzeFn    func(clause domain.Clause) (domain.ClauseRisk, error)
	recommendFn  func(docType string, analysis domain.RiskAnalysis) ([]string, error)
	analyzeCalls int
}

func (s *stubRiskAnalyzer) AnalyzeClause(_ context.Context, clause domain.Clause) (domain.ClauseRisk, error) {
	s.analyzeCalls++
	if s.analyzeFn == nil {
		return domain.ClauseRisk{}, errors.New("unavailable")
	}
	return s.analyzeFn(clause)
}

func (s *stubRiskAnalyzer) Recommendations(_ context.Context, docType string, analysis domain.RiskAnalysis) ([]string, error) {
	if s.recommendFn == nil {
		return nil, errors.New("unavailable")
	}
	return s.recommendFn(docType, analysis)
}

type stubAnswerGenerator struct {
	answer  string
	err     error
	history string
	context string
}

func (s *stubAnswerGenerator) GenerateAnswer(_ context.Context, _, history, contextBlock string) (string, error) {
	s.history = history
	s.context = contextBlock
	return s.answer, s.err
}

type fakeObserver struct {
	sections  []int
	fallbacks map[string]int
}

func (o *fakeObserver) ObserveSections(count int) {
	o.sections = append(o.sections, count)
}

func (o *fakeObserver) RecordFallback(stage string) {
	if o.fallbacks == nil {
		o.fallbacks = make(map[string]int)
	}
	o.fallbacks[stage]++
}

var _ ports.PipelineObserver = (*fakeObserver)(nil)

var _ ports.DocumentRepository = (*fakeDocumentRepo)(nil)
var _ ports.ClauseRepository = (*fakeClauseRepo)(nil)
var _ ports.ConversationRepository = (*fakeConversationRepo)(nil)
var _ ports.ObjectStorage = (*fakeStorage)(nil)
var _ ports.MessageQueue = (*fakeQueue)(nil)
