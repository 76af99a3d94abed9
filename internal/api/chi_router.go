// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/aesthetica/internal/auth"
	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/config"
	"github.com/tomtom215/aesthetica/internal/middleware"
)

// Router wires handlers to routes behind the authentication gate, the tenant
// resolver and the role gate.
type Router struct {
	handler  *Handler
	gate     *auth.Gate
	resolver *authz.Resolver
	policy   *authz.Policy
	config   *config.Config
	limits   rateLimiters
}

// NewRouter creates a router.
func NewRouter(handler *Handler, gate *auth.Gate, resolver *authz.Resolver, policy *authz.Policy, cfg *config.Config) *Router {
	return &Router{
		handler:  handler,
		gate:     gate,
		resolver: resolver,
		policy:   policy,
		config:   cfg,
		limits:   newRateLimiters(cfg.RateLimit),
	}
}

// require is the role gate for one resource and action, with the allow-list
// expanded from the policy when the route is built.
func (router *Router) require(resource string, action authz.Action) func(http.Handler) http.Handler {
	return router.policy.Require(resource, action)
}

// authenticated is the per-request chain every business route runs behind:
// gate, tenant resolver, then the refresh hint for the resolved identity.
func (router *Router) authenticated(r chi.Router) {
	r.Use(router.gate.Authenticate)
	r.Use(router.resolver.Attach)
	r.Use(router.gate.RefreshHint(authz.ResolvedSubject))
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recoverer(router.config.IsDevelopment()))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(CORSOptions(router.config.Security)))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(middleware.MaxBodyBytes(router.config.Server.MaxBodyBytes))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(router.limits.create).Post("/signup", router.handler.Signup)
		r.With(router.limits.login).Post("/login", router.handler.Login)

		// Logout only needs a valid token: a user disabled mid-session can still end it.
		r.With(router.gate.Authenticate).Post("/logout", router.handler.Logout)

		r.Group(func(r chi.Router) {
			router.authenticated(r)
			r.Post("/refresh", router.handler.Refresh)
			r.Get("/me", router.handler.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(router.limits.api)
		router.authenticated(r)

		router.patientRoutes(r)
		router.catalogRoutes(r)
		router.appointmentRoutes(r)
		router.visitRoutes(r)
		router.financeRoutes(r)
		router.userRoutes(r)

		r.With(router.require("dashboard", authz.ActionRead)).Get("/dashboard", router.handler.Dashboard)
		r.With(router.require("audit", authz.ActionRead)).Get("/audit", router.handler.ListAuditEvents)
	})

	return r
}

func (router *Router) patientRoutes(r chi.Router) {
	r.Route("/patients", func(r chi.Router) {
		r.With(router.require("patients", authz.ActionRead)).Get("/", router.handler.ListPatients)
		r.With(router.require("patients", authz.ActionWrite), router.limits.create).Post("/", router.handler.CreatePatient)
		r.With(router.require("patients", authz.ActionRead)).Get("/{id}", router.handler.GetPatient)
		r.With(router.require("patients", authz.ActionWrite)).Put("/{id}", router.handler.UpdatePatient)
		r.With(router.require("patients", authz.ActionDelete)).Delete("/{id}", router.handler.DeletePatient)
	})
}

func (router *Router) catalogRoutes(r chi.Router) {
	r.Route("/procedures", func(r chi.Router) {
		r.With(router.require("procedures", authz.ActionRead)).Get("/", router.handler.ListProcedures)
		r.With(router.require("procedures", authz.ActionWrite)).Post("/", router.handler.CreateProcedure)
		r.With(router.require("procedures", authz.ActionRead)).Get("/{id}", router.handler.GetProcedure)
		r.With(router.require("procedures", authz.ActionWrite)).Put("/{id}", router.handler.UpdateProcedure)
		r.With(router.require("procedures", authz.ActionDelete)).Delete("/{id}", router.handler.DeleteProcedure)
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.With(router.require("suppliers", authz.ActionRead)).Get("/", router.handler.ListSuppliers)
		r.With(router.require("suppliers", authz.ActionWrite)).Post("/", router.handler.CreateSupplier)
		r.With(router.require("suppliers", authz.ActionRead)).Get("/{id}", router.handler.GetSupplier)
		r.With(router.require("suppliers", authz.ActionWrite)).Put("/{id}", router.handler.UpdateSupplier)
		r.With(router.require("suppliers", authz.ActionDelete)).Delete("/{id}", router.handler.DeleteSupplier)
	})

	r.Route("/products", func(r chi.Router) {
		r.With(router.require("products", authz.ActionRead)).Get("/", router.handler.ListProducts)
		r.With(router.require("products", authz.ActionWrite)).Post("/", router.handler.CreateProduct)
		r.With(router.require("products", authz.ActionRead)).Get("/{id}", router.handler.GetProduct)
		r.With(router.require("products", authz.ActionWrite)).Put("/{id}", router.handler.UpdateProduct)
		r.With(router.require("products", authz.ActionDelete)).Delete("/{id}", router.handler.DeleteProduct)
	})
}

func (router *Router) appointmentRoutes(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.With(router.require("appointments", authz.ActionRead)).Get("/", router.handler.ListAppointments)
		r.With(router.require("appointments", authz.ActionWrite), router.limits.create).Post("/", router.handler.CreateAppointment)
		r.With(router.require("appointments", authz.ActionRead)).Get("/{id}", router.handler.GetAppointment)
		r.With(router.require("appointments", authz.ActionWrite)).Put("/{id}", router.handler.UpdateAppointment)
		r.With(router.require("appointments", authz.ActionDelete)).Delete("/{id}", router.handler.DeleteAppointment)
	})
}

func (router *Router) visitRoutes(r chi.Router) {
	r.Route("/visits", func(r chi.Router) {
		r.With(router.require("visits", authz.ActionRead)).Get("/", router.handler.ListVisits)
		r.With(router.require("visits", authz.ActionWrite), router.limits.create).Post("/", router.handler.CreateVisit)
		r.With(router.require("visits", authz.ActionRead)).Get("/{id}", router.handler.GetVisit)
	})

	// Staff pick a payment method when recording a visit.
	r.With(router.require("visits", authz.ActionRead)).Get("/payment-methods", router.handler.ListPaymentMethods)
}

func (router *Router) financeRoutes(r chi.Router) {
	r.Route("/finance", func(r chi.Router) {
		r.Route("/receivables", func(r chi.Router) {
			r.With(router.require("finance", authz.ActionRead)).Get("/", router.handler.ListReceivables)
			r.With(router.require("finance", authz.ActionWrite)).Post("/", router.handler.CreateReceivable)
			r.With(router.require("finance", authz.ActionRead)).Get("/{id}", router.handler.GetReceivable)
			r.With(router.require("finance", authz.ActionWrite)).Post("/{id}/receive", router.handler.ReceiveReceivable)
		})
		r.Route("/payables", func(r chi.Router) {
			r.With(router.require("finance", authz.ActionRead)).Get("/", router.handler.ListPayables)
			r.With(router.require("finance", authz.ActionWrite)).Post("/", router.handler.CreatePayable)
			r.With(router.require("finance", authz.ActionRead)).Get("/{id}", router.handler.GetPayable)
			r.With(router.require("finance", authz.ActionWrite)).Post("/{id}/pay", router.handler.PayPayable)
		})
	})
}

func (router *Router) userRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(router.require("users", authz.ActionRead)).Get("/", router.handler.ListUsers)
		r.With(router.require("users", authz.ActionWrite)).Post("/", router.handler.CreateUser)
		r.With(router.require("users", authz.ActionWrite)).Put("/{id}", router.handler.UpdateUser)
	})
}
