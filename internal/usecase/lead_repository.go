package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
)

// LeadRepository é o único dono da coleção em memória. Toda mutação monta
// uma cópia nova, salva no store e só então troca a coleção: se o save
// falhar, a memória continua como estava. Enquanto a carga inicial não der
// certo, nenhuma mutação é gravada.
type LeadRepository struct {
	mu     sync.RWMutex
	leads  []entity.Lead
	loaded bool

	store    LeadStore
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	location *time.Location
}

type RepositoryOption func(*LeadRepository)

func WithClock(now func() time.Time) RepositoryOption {
	return func(r *LeadRepository) { r.now = now }
}

func WithIDGenerator(newID func() string) RepositoryOption {
	return func(r *LeadRepository) { r.newID = newID }
}

// WithLocation sets the zone used for return times typed without offset.
func WithLocation(loc *time.Location) RepositoryOption {
	return func(r *LeadRepository) { r.location = loc }
}

func NewLeadRepository(ctx context.Context, store LeadStore, logger *zap.Logger, opts ...RepositoryOption) *LeadRepository {
	r := &LeadRepository{
		store:    store,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
		location: time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.leads = []entity.Lead{}
	if err := r.ensureLoadedLocked(ctx); err != nil {
		r.logger.Warn("⚠️ leads não carregados, escrita bloqueada até o store voltar", zap.Error(err))
	}
	return r
}

// ensureLoadedLocked tenta carregar a coleção se ainda não carregou.
// Chamar com r.mu travado para escrita.
func (r *LeadRepository) ensureLoadedLocked(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	leads, err := r.store.Load(ctx)
	if err != nil {
		return &TechnicalError{
			Code:    CodeStoreError,
			Message: "store indisponível, leads não carregados: " + err.Error(),
			Err:     err,
		}
	}
	r.leads = r.dedupe(leads)
	r.loaded = true
	r.logger.Info("📂 leads carregados", zap.Int("total", len(r.leads)))
	return nil
}

// refresh é o ensureLoadedLocked das leituras.
func (r *LeadRepository) refresh(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLoadedLocked(ctx)
}

// Loaded reports whether the collection was read from the store.
func (r *LeadRepository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// dedupe mantém a primeira ocorrência de cada id.
func (r *LeadRepository) dedupe(leads []entity.Lead) []entity.Lead {
	seen := make(map[string]struct{}, len(leads))
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if _, dup := seen[l.ID]; dup || l.ID == "" {
			r.logger.Warn("⚠️ lead com id duplicado ou vazio descartado", zap.String("id", l.ID))
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}

func (r *LeadRepository) Create(ctx context.Context, input LeadInput) (entity.Lead, error) {
	if errs := ValidateLeadInput(input, r.location); len(errs) > 0 {
		return entity.Lead{}, newValidationError(errs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return entity.Lead{}, err
	}

	id := r.newID()
	for r.indexOf(id) >= 0 {
		id = r.newID()
	}

	lead, err := input.newLead(id, r.now(), r.location)
	if err != nil {
		return entity.Lead{}, newValidationError([]ValidationError{{"returnDateTime", err.Error()}})
	}

	next := make([]entity.Lead, 0, len(r.leads)+1)
	next = append(next, lead)
	next = append(next, r.leads...)

	if err := r.commit(ctx, next); err != nil {
		return entity.Lead{}, err
	}

	r.logger.Info("✅ lead cadastrado", zap.String("id", lead.ID), zap.String("name", lead.Name))
	return lead, nil
}

// Update substitui o lead de mesmo id. CreatedAt vem sempre do registro salvo.
func (r *LeadRepository) Update(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	if errs := ValidateLead(lead); len(errs) > 0 {
		return entity.Lead{}, newValidationError(errs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return entity.Lead{}, err
	}

	return r.replaceLocked(ctx, lead)
}

// Edit aplica o formulário de edição ao lead salvo, de forma atômica.
func (r *LeadRepository) Edit(ctx context.Context, id string, input LeadInput) (entity.Lead, error) {
	if errs := ValidateLeadInput(input, r.location); len(errs) > 0 {
		return entity.Lead{}, newValidationError(errs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return entity.Lead{}, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, newNotFoundError(id)
	}

	lead := r.leads[idx]
	if err := input.applyTo(&lead, r.location); err != nil {
		return entity.Lead{}, newValidationError([]ValidationError{{"returnDateTime", err.Error()}})
	}
	return r.replaceLocked(ctx, lead)
}

// Delete remove o lead. Id inexistente não é erro.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := make([]entity.Lead, 0, len(r.leads)-1)
	next = append(next, r.leads[:idx]...)
	next = append(next, r.leads[idx+1:]...)

	if err := r.commit(ctx, next); err != nil {
		return err
	}

	r.logger.Info("🗑️ lead excluído", zap.String("id", id))
	return nil
}

// Clear apaga todos os leads.
func (r *LeadRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return err
	}

	if err := r.commit(ctx, []entity.Lead{}); err != nil {
		return err
	}
	r.logger.Warn("🧹 todos os leads foram apagados")
	return nil
}

// Advance move o lead para o próximo status do ciclo.
func (r *LeadRepository) Advance(ctx context.Context, id string) (entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return entity.Lead{}, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, newNotFoundError(id)
	}

	lead := r.leads[idx]
	from := lead.Status
	lead.Status = lead.Status.Next()

	updated, err := r.replaceLocked(ctx, lead)
	if err != nil {
		return entity.Lead{}, err
	}
	r.logger.Info("🔁 status avançado",
		zap.String("id", id), zap.Stringer("from", from), zap.Stringer("to", updated.Status))
	return updated, nil
}

// MarkNotified é o único caminho de escrita do scanner de lembretes.
func (r *LeadRepository) MarkNotified(ctx context.Context, id string) (entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return entity.Lead{}, err
	}

	idx := r.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, newNotFoundError(id)
	}

	lead := r.leads[idx]
	if lead.Notified {
		return lead, nil
	}
	lead.Notified = true
	return r.replaceLocked(ctx, lead)
}

func (r *LeadRepository) Get(ctx context.Context, id string) (entity.Lead, error) {
	if err := r.refresh(ctx); err != nil {
		return entity.Lead{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, newNotFoundError(id)
	}
	return r.leads[idx], nil
}

// Snapshot returns a copy of the collection for read-only observers.
// While the store is unreachable the copy is empty.
func (r *LeadRepository) Snapshot(ctx context.Context) []entity.Lead {
	if err := r.refresh(ctx); err != nil {
		r.logger.Warn("⚠️ leitura sem coleção carregada", zap.Error(err))
	}
	return r.snapshot()
}

func (r *LeadRepository) snapshot() []entity.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Lead, len(r.leads))
	copy(out, r.leads)
	return out
}

// Search filtra a coleção. Com o store fora do ar a lista sai vazia.
func (r *LeadRepository) Search(ctx context.Context, term string) []entity.Lead {
	return SortRecentFirst(SearchLeads(r.Snapshot(ctx), term))
}

func (r *LeadRepository) RecentFirst(ctx context.Context, n int) []entity.Lead {
	return RecentFirst(r.Snapshot(ctx), n)
}

func (r *LeadRepository) replaceLocked(ctx context.Context, lead entity.Lead) (entity.Lead, error) {
	idx := r.indexOf(lead.ID)
	if idx < 0 {
		return entity.Lead{}, newNotFoundError(lead.ID)
	}
	lead.CreatedAt = r.leads[idx].CreatedAt

	next := make([]entity.Lead, len(r.leads))
	copy(next, r.leads)
	next[idx] = lead

	if err := r.commit(ctx, next); err != nil {
		return entity.Lead{}, err
	}
	return lead, nil
}

func (r *LeadRepository) commit(ctx context.Context, next []entity.Lead) error {
	if err := r.store.Save(ctx, next); err != nil {
		r.logger.Error("❌ falha ao salvar leads", zap.Error(err))
		return &TechnicalError{
			Code:    CodeStoreError,
			Message: "falha ao salvar leads: " + err.Error(),
			Err:     err,
		}
	}
	r.leads = next
	return nil
}

func (r *LeadRepository) indexOf(id string) int {
	for i := range r.leads {
		if r.leads[i].ID == id {
			return i
		}
	}
	return -1
}

// SearchLeads filtra por nome (sem diferenciar maiúsculas) ou por trecho do
// telefone como foi digitado. Termo vazio devolve tudo.
func SearchLeads(leads []entity.Lead, term string) []entity.Lead {
	if term == "" {
		out := make([]entity.Lead, len(leads))
		copy(out, leads)
		return out
	}

	needle := strings.ToLower(term)
	out := []entity.Lead{}
	for _, l := range leads {
		if strings.Contains(strings.ToLower(l.Name), needle) || strings.Contains(l.Phone, term) {
			out = append(out, l)
		}
	}
	return out
}

// SortRecentFirst ordena por createdAt decrescente, no próprio slice.
func SortRecentFirst(leads []entity.Lead) []entity.Lead {
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads
}

// RecentFirst returns the n most recently created leads.
func RecentFirst(leads []entity.Lead, n int) []entity.Lead {
	if n <= 0 {
		return []entity.Lead{}
	}
	sorted := make([]entity.Lead, len(leads))
	copy(sorted, leads)
	SortRecentFirst(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
