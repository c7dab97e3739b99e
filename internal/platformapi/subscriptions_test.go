package platformapi

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mawulip/pronostix/internal/domain/subscription"
	"github.com/mawulip/pronostix/internal/usecase"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_CancelHitsTheExactEndpoint(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths []string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /subscriptions/{id}/cancel/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "user": 12, "plan": 3, "status": "canceled"}`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	sub, err := NewSubscriptionService(client).Cancel(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, subscription.StatusCanceled, sub.Status)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"/subscriptions/42/cancel/"}, paths)
}

func TestSubscriptionService_PlansDecodeFeatures(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/subscription-plans/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"id": 3,
			"name": "Premium",
			"plan_type": "PREMIUM",
			"price": 5000,
			"duration_days": 30,
			"features": {"coupons_vip": true, "analyses": false, "pronostics_par_jour": 10}
		}]`))
	})

	client, _ := newTestClient(t, mux)

	plans, err := NewSubscriptionService(client).Plans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)

	plan := plans[0]
	require.Equal(t, subscription.PlanPremium, plan.PlanType)
	require.Equal(t, "Oui", subscription.FeatureLabel(plan.Features["coupons_vip"]))
	require.Equal(t, "Non", subscription.FeatureLabel(plan.Features["analyses"]))
	require.Equal(t, "10", subscription.FeatureLabel(plan.Features["pronostics_par_jour"]))
}

func TestSubscriptionService_InitiatePaymentReturnsPaymentURL(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /subscriptions/{id}/initiate_payment/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "42", r.PathValue("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payment_url": "https://pay.example.com/tx/abc"}`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	result, err := NewSubscriptionService(client).InitiatePayment(context.Background(), 42, InitiatePaymentInput{Phone: "90000000"})
	require.NoError(t, err)
	require.Equal(t, "https://pay.example.com/tx/abc", result.PaymentURL)
}

func TestSubscriptionService_CurrentPicksTheActiveOne(t *testing.T) {
	t.Parallel()

	farEnd := time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339)
	pastEnd := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /subscriptions/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 40, "user": 12, "plan": 1, "status": "expired", "end_date": "` + pastEnd + `"},
			{"id": 42, "user": 12, "plan": 3, "status": "active", "end_date": "` + farEnd + `", "auto_renew": true}
		]`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	current, ok, err := NewSubscriptionService(client).Current(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), current.ID)
}

func TestSubscriptionService_CurrentReportsNoneWithoutError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /subscriptions/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	_, ok, err := NewSubscriptionService(client).Current(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubscriptionService_GetMapsNotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /subscriptions/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"abonnement introuvable"}`))
	})

	client, sess := newTestClient(t, mux)
	sess.SetTokens("T1", "R1")

	_, err := NewSubscriptionService(client).Get(context.Background(), 7)
	require.ErrorIs(t, err, usecase.ErrNotFound)
}
