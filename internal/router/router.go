package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "livestock-registry/docs"
	mem "livestock-registry/internal/adapters/storage/memory"
	pg "livestock-registry/internal/adapters/storage/postgres"
	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/births"
	"livestock-registry/internal/domain/campaigns"
	"livestock-registry/internal/domain/groups"
	"livestock-registry/internal/domain/history"
	"livestock-registry/internal/domain/states"
	"livestock-registry/internal/domain/users"
	"livestock-registry/internal/domain/vaccinations"
	"livestock-registry/internal/middleware"
	"livestock-registry/internal/platform/logger"
	"livestock-registry/internal/ports/auth"
	"livestock-registry/internal/seed"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev con X-Debug-User-ID)
	TokenIssuer  users.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// EnableDemo publica POST /auth/demo con la cuenta de ejemplo.
	EnableDemo bool
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		userRepo        users.Repository
		groupRepo       groups.Repository
		membershipRepo  groups.MembershipRepository
		animalRepo      animals.Repository
		vaccinationRepo vaccinations.Repository
		stateRepo       states.Repository
		historyRepo     history.Repository
		birthRepo       births.Repository
		campaignRepo    campaigns.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		groupRepo = pg.NewGroupsRepo(db)
		membershipRepo = pg.NewMembershipsRepo(db)
		animalRepo = pg.NewAnimalsRepo(db)
		vaccinationRepo = pg.NewVaccinationsRepo(db)
		stateRepo = pg.NewStatesRepo(db)
		historyRepo = pg.NewHistoryRepo(db)
		birthRepo = pg.NewBirthsRepo(db)
		campaignRepo = pg.NewCampaignsRepo(db)
	} else {
		store := mem.NewStore()
		userRepo = store.Users()
		groupRepo = store.Groups()
		membershipRepo = store.Memberships()
		animalRepo = store.Animals()
		vaccinationRepo = store.Vaccinations()
		stateRepo = store.States()
		historyRepo = store.History()
		birthRepo = store.Births()
		campaignRepo = store.Campaigns()
	}

	// Services por módulo. Los de eventos dependen del de animales para
	// resolver la propiedad; el de animales depende del de grupos para
	// las altas delegadas.
	usersSvc := users.NewService(userRepo)
	groupsSvc := groups.NewService(groupRepo, membershipRepo, usersSvc)
	animalsSvc := animals.NewService(animalRepo, groupsSvc)
	vaccinationsSvc := vaccinations.NewService(vaccinationRepo, animalsSvc)
	statesSvc := states.NewService(stateRepo, animalsSvc)
	historySvc := history.NewService(historyRepo, animalsSvc)
	birthsSvc := births.NewService(birthRepo, animalsSvc)
	campaignsSvc := campaigns.NewService(campaignRepo, groupsSvc, animalsSvc)

	var demo users.DemoBootstrapper
	if opts.EnableDemo {
		demo = seed.New(usersSvc, groupsSvc, animalsSvc, campaignsSvc, log)
	}

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, opts.TokenIssuer, demo)
	groups.RegisterRoutes(r, groupsSvc)
	animals.RegisterRoutes(r, animalsSvc)
	vaccinations.RegisterRoutes(r, vaccinationsSvc)
	states.RegisterRoutes(r, statesSvc)
	history.RegisterRoutes(r, historySvc)
	births.RegisterRoutes(r, birthsSvc)
	campaigns.RegisterRoutes(r, campaignsSvc)

	return r
}
