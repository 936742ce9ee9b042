// Package storefront serves the shopper-facing page models and the per-session
// cart and checkout.
package storefront

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/utmart-backend/api/middleware"
	"github.com/angelmondragon/utmart-backend/api/responses"
	"github.com/angelmondragon/utmart-backend/api/validators"
	"github.com/angelmondragon/utmart-backend/internal/checkout"
	sf "github.com/angelmondragon/utmart-backend/internal/storefront"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
)

type addItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type paymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=16"`
}

type stepRequest struct {
	Step string `json:"step" validate:"required,max=16"`
}

// sessionHandler runs fn with the request's session locked.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *sf.Session)

func withSession(reg *sf.Registry, logg *logger.Logger, fn sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}
		sess, err := reg.Session(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.Lock()
		defer sess.Unlock()
		fn(w, r, sess)
	}
}

// Home returns the landing page model.
func Home(pages *sf.Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pages.Home(r.Context()))
	}
}

// Products returns the listing for ?category= ordered by ?sort=.
func Products(pages *sf.Pages, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sort, err := validators.ParseSortQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := validators.SanitizeString(r.URL.Query().Get("category"), 100)
		responses.WriteSuccess(w, pages.Products(r.Context(), category, sort))
	}
}

func Product(pages *sf.Pages, reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := pages.Product(r.Context(), id, sess.Cart())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	})
}

func Cart(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

// AddCartItem looks the product up in the catalog and adds one unit.
func AddCartItem(pages *sf.Pages, reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := pages.LookupProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.Cart().AddToCart(r.Context(), product)
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

func UpdateCartItem(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.Cart().UpdateQuantity(r.Context(), id, *payload.Quantity)
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

func RemoveCartItem(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess.Cart().RemoveFromCart(r.Context(), id)
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

func ClearCart(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		sess.Cart().ClearCart(r.Context())
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

func ToggleCart(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		sess.Cart().Toggle()
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

func CloseCart(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		sess.Cart().Close()
		responses.WriteSuccess(w, sf.NewCartView(sess.Cart()))
	})
}

// Checkout returns the current step, or redirects to the catalog when there
// is nothing to check out.
func Checkout(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		flow := sess.Checkout()
		if target, redirect := flow.Guard(); redirect {
			responses.WriteRedirect(w, target)
			return
		}
		responses.WriteSuccess(w, sf.NewCheckoutView(flow, sess.Cart()))
	})
}

func SubmitAddress(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		var addr checkout.Address
		if err := validators.DecodeJSONBody(r, &addr); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flow := sess.Checkout()
		if err := flow.SubmitAddress(r.Context(), addr); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sf.NewCheckoutView(flow, sess.Cart()))
	})
}

func SubmitPayment(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flow := sess.Checkout()
		if err := flow.SubmitPayment(r.Context(), payload.PaymentMethod); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sf.NewCheckoutView(flow, sess.Cart()))
	})
}

// GoToStep navigates back to an earlier checkout step.
func GoToStep(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		var payload stepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flow := sess.Checkout()
		if err := flow.GoTo(strings.TrimSpace(payload.Step)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sf.NewCheckoutView(flow, sess.Cart()))
	})
}

func PlaceOrder(reg *sf.Registry, logg *logger.Logger) http.HandlerFunc {
	return withSession(reg, logg, func(w http.ResponseWriter, r *http.Request, sess *sf.Session) {
		flow := sess.Checkout()
		if _, err := flow.PlaceOrder(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sf.NewCheckoutView(flow, sess.Cart()))
	})
}
