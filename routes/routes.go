package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/handlers"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/repository"
)

// Deps is everything the router needs; main builds it once.
type Deps struct {
	DB              *gorm.DB
	Log             *logger.Logger
	Tokens          *middleware.TokenIssuer
	RegisterLimiter middleware.RateLimiter
	LoginLimiter    middleware.RateLimiter
	StoreOptions    repository.Options
	AuthOptions     handlers.AuthOptions
	CORSOrigin      string
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(d Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = middleware.NotFound()
	r.MethodNotAllowedHandler = middleware.MethodNotAllowed()

	store := repository.NewStore(d.DB, d.Log, d.StoreOptions)
	auth := handlers.NewAuthHandler(repository.NewUserRepo(store), d.Tokens, d.AuthOptions)

	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = middleware.NotFound()
	api.MethodNotAllowedHandler = middleware.MethodNotAllowed()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	api.HandleFunc("/health", handlers.Health(d.DB)).Methods("GET")
	api.Handle("/register", middleware.RateLimit(d.RegisterLimiter,
		"Too many registration attempts, please try again later",
		http.HandlerFunc(auth.Register))).Methods("POST")
	api.Handle("/login", middleware.RateLimit(d.LoginLimiter,
		"Too many login attempts, please try again later",
		http.HandlerFunc(auth.Login))).Methods("POST")

	// =====================================================
	// Protected Routes (require JWT authentication)
	// =====================================================
	api.Handle("/dashboard", d.Tokens.Authenticate(http.HandlerFunc(auth.Dashboard))).Methods("GET")

	// Lab documents
	qc := handlers.NewDocumentHandler[models.QCAnalisaPayload, *models.QCAnalisaDetail](
		"QC Analisa", repository.NewQCAnalisaRepo(store))
	registerCRUDRoutes(api, "/qc-analisa", d.Tokens, crudHandlers{
		getAll: qc.List,
		create: qc.Create,
		getOne: qc.Get,
		update: qc.Update,
		delete: qc.Delete,
		export: qc.Export,
	})

	resin := handlers.NewDocumentHandler[models.ResinInspectionPayload, *models.ResinInspectionDetail](
		"Resin Inspection", repository.NewResinInspectionRepo(store))
	registerCRUDRoutes(api, "/resin-inspection", d.Tokens, crudHandlers{
		getAll: resin.List,
		create: resin.Create,
		getOne: resin.Get,
		update: resin.Update,
		delete: resin.Delete,
		export: resin.Export,
	})

	flakes := handlers.NewDocumentHandler[models.FlakesPayload, *models.FlakesDetail](
		"Flakes", repository.NewFlakesRepo(store))
	registerCRUDRoutes(api, "/flakes", d.Tokens, crudHandlers{
		getAll: flakes.List,
		create: flakes.Create,
		getOne: flakes.Get,
		update: flakes.Update,
		delete: flakes.Delete,
		export: flakes.Export,
	})

	labPB := handlers.NewDocumentHandler[models.LabPBPayload, *models.LabPBDetail](
		"Lab PB", repository.NewLabPBRepo(store))
	registerCRUDRoutes(api, "/lab-pb", d.Tokens, crudHandlers{
		getAll: labPB.List,
		create: labPB.Create,
		getOne: labPB.Get,
		update: labPB.Update,
		delete: labPB.Delete,
		export: labPB.Export,
	})

	var h http.Handler = r
	h = middleware.CORS(d.CORSOrigin)(h)
	h = middleware.RequestLogger(d.Log)(h)
	return h
}

type crudHandlers struct {
	getAll func(http.ResponseWriter, *http.Request)
	create func(http.ResponseWriter, *http.Request)
	getOne func(http.ResponseWriter, *http.Request)
	update func(http.ResponseWriter, *http.Request)
	delete func(http.ResponseWriter, *http.Request)
	export func(http.ResponseWriter, *http.Request)
}

// deleteRoles may remove documents.
var deleteRoles = []string{models.RoleAdmin, models.RoleSupervisor}

// registerCRUDRoutes registers the document routes for one type:
//
//	POST   <path>                create
//	GET    <path>-documents      list (alias <path>/documents)
//	GET    <path>/{id}           read
//	PUT    <path>/{id}           replace
//	GET    <path>/{id}/export    xlsx or csv download
//	DELETE <path>-documents/{id} delete, admin or supervisor only
func registerCRUDRoutes(router *mux.Router, path string, tokens *middleware.TokenIssuer, h crudHandlers) {
	router.HandleFunc(path, h.create).Methods("POST")

	// list aliases go before {id} so "documents" is never read as an id
	router.HandleFunc(path+"-documents", h.getAll).Methods("GET")
	router.HandleFunc(path+"/documents", h.getAll).Methods("GET")

	router.HandleFunc(path+"/{id}", h.getOne).Methods("GET")
	router.HandleFunc(path+"/{id}", h.update).Methods("PUT")
	router.HandleFunc(path+"/{id}/export", h.export).Methods("GET")

	router.Handle(path+"-documents/{id}", tokens.Authenticate(
		middleware.RequireRole(deleteRoles, http.HandlerFunc(h.delete)))).Methods("DELETE")
}
