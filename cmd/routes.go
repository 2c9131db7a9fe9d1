package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"estateBack/internal/analysis"
	"estateBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleUser))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Auth
	mux.Post("/api/auth/signup", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/api/auth/signin", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/api/auth/signout", standardMiddleware.ThenFunc(app.userHandler.SignOut))

	// Users. Fixed paths go before /api/user/:id.
	mux.Get("/api/user/admin/all", adminAuthMiddleware.ThenFunc(app.userHandler.AdminAllUsers))
	mux.Del("/api/user/admin/delete/:id", adminAuthMiddleware.ThenFunc(app.userHandler.AdminDeleteUser))
	mux.Post("/api/user/admin/update/:id", adminAuthMiddleware.ThenFunc(app.userHandler.AdminUpdateUser))
	mux.Get("/api/user/admin/:id/listings", adminAuthMiddleware.ThenFunc(app.userHandler.UserListings))
	mux.Get("/api/user/public/:id", standardMiddleware.ThenFunc(app.userHandler.PublicProfile))
	mux.Get("/api/user/listings/:id", authMiddleware.ThenFunc(app.userHandler.UserListings))
	mux.Post("/api/user/update/:id", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Del("/api/user/delete/:id", authMiddleware.ThenFunc(app.userHandler.DeleteUser))
	mux.Get("/api/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUser))

	// User listings
	mux.Post("/api/listing/create", authMiddleware.ThenFunc(app.listingHandler.CreateListing))
	mux.Post("/api/listing/update/:id", authMiddleware.ThenFunc(app.listingHandler.UpdateListing))
	mux.Del("/api/listing/delete/:id", authMiddleware.ThenFunc(app.listingHandler.DeleteListing))
	mux.Get("/api/listing/get/:id", standardMiddleware.ThenFunc(app.listingHandler.GetListing))
	mux.Get("/api/listing/get", standardMiddleware.ThenFunc(app.listingHandler.SearchListings))
	mux.Get("/api/listing/feed", standardMiddleware.ThenFunc(app.listingHandler.Feed))
	mux.Get("/api/listing/admin/user-listings", adminAuthMiddleware.ThenFunc(app.listingHandler.AdminListingsByStatus))
	mux.Put("/api/listing/admin/status/:id", adminAuthMiddleware.ThenFunc(app.listingHandler.AdminChangeStatus))
	mux.Get("/api/listing/admin/all", adminAuthMiddleware.ThenFunc(app.listingHandler.AdminAllListings))
	mux.Get("/api/listing/admin/stats", adminAuthMiddleware.ThenFunc(app.listingHandler.AdminStats))

	// Crawled listings
	mux.Get("/api/listing/crawl/:id/view", standardMiddleware.ThenFunc(app.crawledHandler.GetCrawledView))
	mux.Get("/api/listing/crawl/:id", standardMiddleware.ThenFunc(app.crawledHandler.GetCrawled))
	mux.Put("/api/listing/crawl/:id", adminAuthMiddleware.ThenFunc(app.crawledHandler.UpdateCrawled))
	mux.Del("/api/listing/crawl/:id", adminAuthMiddleware.ThenFunc(app.crawledHandler.DeleteCrawled))
	mux.Get("/api/listing/crawl", standardMiddleware.ThenFunc(app.crawledHandler.SearchCrawled))

	// Reports
	mux.Get("/api/analysis/wards", standardMiddleware.Then(app.analysisHandler.Report(analysis.Wards)))
	mux.Get("/api/analysis/directions", standardMiddleware.Then(app.analysisHandler.Report(analysis.Directions)))
	mux.Get("/api/analysis/street-width", standardMiddleware.Then(app.analysisHandler.Report(analysis.StreetWidth)))

	// Images
	mux.Get("/api/image/auth", authMiddleware.ThenFunc(app.imageHandler.UploadAuth))

	// Moderation feed. Upgrades the connection, so no JSON content type.
	mux.Get("/ws/moderation", alice.New(app.recoverPanic, app.logRequest, app.JWTMiddlewareWithRole(models.RoleAdmin)).ThenFunc(app.ModerationWebSocketHandler))

	return mux
}
