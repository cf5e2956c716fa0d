package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"dealercrm/internal/config"
	"dealercrm/internal/database"
	"dealercrm/internal/domain"
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
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM team_members")
	db.Exec("DELETE FROM companies")

	ctx := context.Background()
	companies := repository.NewCompanyRepository(db)
	members := repository.NewTeamMemberRepository(db)
	leads := repository.NewLeadRepository(db)

	// ================== COMPANIES ==================
	log.Println("Creating companies...")

	weekdays := make(map[time.Weekday]domain.DaySchedule)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		weekdays[wd] = domain.DaySchedule{Open: true, Start: "09:00", End: "18:00"}
	}
	weekdays[time.Saturday] = domain.DaySchedule{Open: true, Start: "09:00", End: "13:00"}

	horizonte := domain.Company{
		Name:     "Concessionaria Horizonte",
		Timezone: "America/Sao_Paulo",
		PipelineStages: []domain.PipelineStage{
			{ID: 1, Name: domain.StageNewLeads, Order: 0},
			{ID: 2, Name: "Em Atendimento", Order: 1},
			{ID: 3, Name: "Proposta", Order: 2},
			{ID: 4, Name: "Vendido", Order: 3},
		},
		BusinessHours: &domain.BusinessHours{Enabled: true, Days: weekdays},
	}
	if err := companies.Create(ctx, &horizonte); err != nil {
		log.Fatal(err)
	}

	plantao := domain.Company{
		Name:     "AutoPlantao 24h",
		Timezone: "America/Sao_Paulo",
		PipelineStages: []domain.PipelineStage{
			{ID: 1, Name: domain.StageNewLeads, Order: 0},
			{ID: 2, Name: "Negociacao", Order: 1},
		},
		BusinessHours: &domain.BusinessHours{Enabled: true, Is247: true},
	}
	if err := companies.Create(ctx, &plantao); err != nil {
		log.Fatal(err)
	}

	// ================== TEAM MEMBERS ==================
	log.Println("Creating team members...")

	hash, _ := bcrypt.GenerateFromPassword([]byte("vendas123"), bcrypt.DefaultCost)

	ana := domain.TeamMember{
		CompanyID:    horizonte.ID,
		Name:         "Ana Souza",
		Email:        "ana@horizonte.com.br",
		PasswordHash: string(hash),
		Role:         domain.RoleSalesperson,
		Deadlines: &domain.DeadlineSettings{
			InitialContact: domain.DeadlinePolicy{
				Minutes:      30,
				AutoReassign: true,
				Mode:         domain.ReassignRandom,
			},
		},
	}
	if err := members.Create(ctx, &ana); err != nil {
		log.Fatal(err)
	}

	bruno := domain.TeamMember{
		CompanyID:    horizonte.ID,
		Name:         "Bruno Lima",
		Email:        "bruno@horizonte.com.br",
		PasswordHash: string(hash),
		Role:         domain.RoleSalesperson,
	}
	if err := members.Create(ctx, &bruno); err != nil {
		log.Fatal(err)
	}

	carla := domain.TeamMember{
		CompanyID:    horizonte.ID,
		Name:         "Carla Dias",
		Email:        "carla@horizonte.com.br",
		PasswordHash: string(hash),
		Role:         domain.RoleManager,
	}
	if err := members.Create(ctx, &carla); err != nil {
		log.Fatal(err)
	}

	target := ana.ID
	diego := domain.TeamMember{
		CompanyID:    plantao.ID,
		Name:         "Diego Ramos",
		Email:        "diego@autoplantao.com.br",
		PasswordHash: string(hash),
		Role:         domain.RoleSalesperson,
		Deadlines: &domain.DeadlineSettings{
			InitialContact: domain.DeadlinePolicy{
				Minutes:      15,
				AutoReassign: true,
				Mode:         domain.ReassignSpecific,
				TargetID:     &target,
			},
		},
	}
	if err := members.Create(ctx, &diego); err != nil {
		log.Fatal(err)
	}

	// ================== LEADS ==================
	log.Println("Creating leads...")

	now := time.Now().UTC()
	seedLeads := []domain.Lead{
		{CompanyID: horizonte.ID, SalespersonID: ana.ID, StageID: 1, Name: "Carlos Mendes", Phone: "+55 11 99999-0001", Source: "webmotors", CreatedAt: now.Add(-5 * time.Minute), UpdatedAt: now},
		{CompanyID: horizonte.ID, SalespersonID: ana.ID, StageID: 1, Name: "Fernanda Alves", Phone: "+55 11 99999-0002", Source: "olx", CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now},
		{CompanyID: horizonte.ID, SalespersonID: bruno.ID, StageID: 2, Name: "Joao Pereira", Phone: "+55 11 99999-0003", Source: "site", CreatedAt: now.Add(-26 * time.Hour), UpdatedAt: now},
		{CompanyID: plantao.ID, SalespersonID: diego.ID, StageID: 1, Name: "Marina Costa", Phone: "+55 21 98888-0004", Source: "instagram", CreatedAt: now.Add(-40 * time.Minute), UpdatedAt: now},
	}
	for i := range seedLeads {
		if err := leads.Create(ctx, &seedLeads[i]); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("seed completed: companies=2 team_members=4 leads=%d", len(seedLeads))
}
