package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/ecocrm/internal/entity"
)

type MockAdviceProvider struct {
	mock.Mock
}

func (m *MockAdviceProvider) GetAdvice(ctx context.Context, lead entity.Lead) (entity.Advice, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(entity.Advice), args.Error(1)
}

var fullAdvice = entity.Advice{
	Pitch:            "Oi João! Posso te mostrar como economizar na conta de luz?",
	Strategy:         "Mostrar a economia anual",
	PotentialSavings: "R$ 64,00/mês",
}

func TestAdviseSuccess(t *testing.T) {
	lead := entity.Lead{ID: "l1", Name: "João"}
	provider := new(MockAdviceProvider)
	provider.On("GetAdvice", mock.Anything, lead).Return(fullAdvice, nil)

	var results []string
	svc := NewAdviceService(provider, 0, time.Second, zap.NewNop())
	svc.OnResult = func(r string) { results = append(results, r) }

	advice, err := svc.Advise(context.Background(), lead)

	require.NoError(t, err)
	assert.Equal(t, fullAdvice, advice)
	assert.Equal(t, []string{"ok"}, results)
	provider.AssertNumberOfCalls(t, "GetAdvice", 1)
}

func TestAdviseProviderFailureDegrades(t *testing.T) {
	lead := entity.Lead{ID: "l1"}
	provider := new(MockAdviceProvider)
	provider.On("GetAdvice", mock.Anything, lead).Return(entity.Advice{}, errors.New("503 from upstream"))

	var results []string
	svc := NewAdviceService(provider, 0, time.Second, zap.NewNop())
	svc.OnResult = func(r string) { results = append(results, r) }

	_, err := svc.Advise(context.Background(), lead)

	assert.ErrorIs(t, err, ErrNoAdvice)
	var pe *AdviceProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "l1", pe.LeadID)
	assert.Equal(t, []string{"error"}, results)
	provider.AssertNumberOfCalls(t, "GetAdvice", 1)
}

func TestAdviseIncompleteResponse(t *testing.T) {
	lead := entity.Lead{ID: "l1"}
	provider := new(MockAdviceProvider)
	provider.On("GetAdvice", mock.Anything, lead).Return(entity.Advice{Pitch: "só o pitch"}, nil)

	svc := NewAdviceService(provider, 0, time.Second, zap.NewNop())
	_, err := svc.Advise(context.Background(), lead)

	assert.ErrorIs(t, err, ErrNoAdvice)
}

func TestAdviseWithoutProvider(t *testing.T) {
	svc := NewAdviceService(nil, 0, time.Second, zap.NewNop())

	assert.False(t, svc.Enabled())
	_, err := svc.Advise(context.Background(), entity.Lead{ID: "l1"})
	assert.ErrorIs(t, err, ErrNoAdvice)
}

// blockingProvider segura a resposta até release ser fechado.
type blockingProvider struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (p *blockingProvider) GetAdvice(ctx context.Context, lead entity.Lead) (entity.Advice, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()
	if first {
		close(p.started)
	}
	<-p.release
	return fullAdvice, nil
}

func TestAdviseSharesInFlightRequestPerLead(t *testing.T) {
	provider := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewAdviceService(provider, 0, 5*time.Second, zap.NewNop())
	lead := entity.Lead{ID: "same"}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Advise(context.Background(), lead)
		}(i)
		if i == 0 {
			<-provider.started
		}
	}

	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, provider.calls)
}

func TestAdviseCallerCanAbandon(t *testing.T) {
	provider := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
	defer close(provider.release)

	svc := NewAdviceService(provider, 0, 5*time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Advise(ctx, entity.Lead{ID: "l1"})
		done <- err
	}()

	<-provider.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrNoAdvice)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Advise não retornou após o cancelamento")
	}
}
