package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dealercrm/internal/config"
	"dealercrm/internal/database"
	"dealercrm/internal/middleware"
	"dealercrm/internal/modules/deadline"
	"dealercrm/internal/modules/pipeline"
	"dealercrm/internal/modules/sweeper"
	jwtsvc "dealercrm/internal/pkg/jwt"
	"dealercrm/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	companyRepo := repository.NewCompanyRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	deadlineService := deadline.NewService(leadRepo, companyRepo, memberRepo, cfg.Location())
	deadlineHandler := deadline.NewHandler(deadlineService)

	pipelineService := pipeline.NewService(leadRepo, companyRepo, memberRepo)
	pipelineHandler := pipeline.NewHandler(pipelineService)

	sweeperService := sweeper.NewService(companyRepo, memberRepo, leadRepo, cfg.Location())
	sweeperHandler := sweeper.NewHandler(sweeperService)

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			deadlineHandler.RegisterRoutes(protected)
			pipelineHandler.RegisterRoutes(protected)
		}

		// called by the external scheduler, not by users
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
		{
			sweeperHandler.RegisterRoutes(internal)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
