package cart

import (
	"context"
	"net/http"

	"github.com/minhvule/teacart/api/middleware"
	"github.com/minhvule/teacart/api/responses"
	"github.com/minhvule/teacart/api/validators"
	cartsvc "github.com/minhvule/teacart/internal/cart"
	"github.com/minhvule/teacart/internal/upstream"
	pkgerrors "github.com/minhvule/teacart/pkg/errors"
	"github.com/minhvule/teacart/pkg/logger"
)

// storeResolver is the slice of the session manager the handlers use.
type storeResolver interface {
	StoreFor(ctx context.Context, sessionID string) (*cartsvc.Store, error)
	RevokeSession(ctx context.Context, sessionID string) error
}

// sessionStore resolves the caller's cart store and re-derives a context that
// carries the bearer token for upstream calls.
func sessionStore(r *http.Request, manager storeResolver) (context.Context, *cartsvc.Store, error) {
	ctx := r.Context()
	sessionID := middleware.SessionIDFromContext(ctx)
	if sessionID == "" {
		return ctx, nil, pkgerrors.New(pkgerrors.CodeAuthRequired, "authentication required")
	}

	store, err := manager.StoreFor(ctx, sessionID)
	if err != nil {
		return ctx, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart session")
	}

	if token := middleware.AccessTokenFromContext(ctx); token != "" {
		ctx = upstream.WithAuthToken(ctx, token)
	}
	return ctx, store, nil
}

// CartFetch reconciles the active store against the backend and returns the
// full cart view.
func CartFetch(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Reconcile(ctx, ""); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// SnapshotList returns the per-store snapshot summaries for the session.
func SnapshotList(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSnapshotViews(store.Snapshots()))
	}
}

// ItemAdd adds a configured product to the active store's cart.
func ItemAdd(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.AddItem(ctx, toAddItemInput(payload)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(store))
	}
}

// ItemQuantityUpdate changes the quantity of one configured line.
func ItemQuantityUpdate(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.UpdateQuantity(ctx, toItemMatch(payload.Item), payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// ItemConfigUpdate replaces one line's full configuration.
func ItemConfigUpdate(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload configRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.UpdateConfig(ctx, toItemMatch(payload.Item), toConfigUpdate(payload.NewConfig)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// ItemRemove deletes one configured line from the active store's cart.
func ItemRemove(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload removeItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.RemoveItem(ctx, toItemMatch(payload.Item)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// CartClear empties the active store's cart.
func CartClear(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// StoreSwitch changes the active commerce store. The response reflects the
// snapshot-restored cart; a background reconciliation refreshes it shortly
// after.
func StoreSwitch(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload switchStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := store.SwitchStore(ctx, payload.StoreID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store))
	}
}

// SelectionUpdate replaces the set of configuration keys marked for checkout.
func SelectionUpdate(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.SetSelectedKeys(ctx, payload.Keys)
		responses.WriteSuccess(w, newCartView(store))
	}
}

// SessionRevoke tears down the caller's cart session.
func SessionRevoke(manager storeResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := middleware.SessionIDFromContext(ctx)
		if sessionID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeAuthRequired, "authentication required"))
			return
		}

		if err := manager.RevokeSession(ctx, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"revoked": true})
	}
}
