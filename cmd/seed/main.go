package main

import (
	"errors"

	"github.com/foodhub-next/internal/config"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/provider"
	"github.com/foodhub-next/internal/repository"
	"github.com/foodhub-next/internal/service"

	"github.com/shopspring/decimal"
)

// 演示账号密码，仅用于本地环境
const demoPassword = "foodhub2024"

type seedProduct struct {
	Name        string
	Description string
	Cost        int64
	Price       int64
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	c := provider.NewContainer(cfg)

	// 收益规则：已存在时保留
	if existing, err := c.SettingService.GetByKey(constants.SettingKeyRevenueRules); err != nil {
		stdLog.Printf("Failed to load revenue rules: %v", err)
	} else if existing == nil {
		if _, err := c.SettingService.UpdateConfigRules(service.DefaultConfigRules()); err != nil {
			stdLog.Printf("Failed to seed revenue rules: %v", err)
		} else {
			stdLog.Printf("Seeded default revenue rules")
		}
	}

	admin := ensureAccount(c, stdLog.Printf, service.CreateAccountInput{
		Username:    "admin",
		Password:    demoPassword,
		DisplayName: "Administrator",
		Role:        constants.RoleAdmin,
	})
	supplierAccount := ensureAccount(c, stdLog.Printf, service.CreateAccountInput{
		Username:        "mama_kitchen",
		Password:        demoPassword,
		DisplayName:     "Mama Kitchen",
		Role:            constants.RoleSupplier,
		SupplierPhone:   "+221770001122",
		SupplierAddress: "Rue 10, Medina",
	})
	ensureAccount(c, stdLog.Printf, service.CreateAccountInput{
		Username:    "awa_promo",
		Password:    demoPassword,
		DisplayName: "Awa",
		Role:        constants.RolePartner,
		PromoCode:   "AWA2024",
	})
	if admin == nil || supplierAccount == nil {
		stdLog.Fatalf("Seed accounts unavailable, abort")
	}

	supplier, err := c.SupplierService.GetByUserID(supplierAccount.ID)
	if err != nil {
		stdLog.Fatalf("Failed to load supplier profile: %v", err)
	}

	products := []seedProduct{
		{Name: "Thieboudienne", Description: "Riz au poisson, légumes de saison", Cost: 1500, Price: 3000},
		{Name: "Yassa poulet", Description: "Poulet mariné aux oignons et citron", Cost: 1800, Price: 3500},
		{Name: "Mafé boeuf", Description: "Ragoût de boeuf à la pâte d'arachide", Cost: 2000, Price: 3200},
	}
	existing, _, err := c.ProductService.ListProducts(repository.ProductListFilter{SupplierID: supplier.ID, PageSize: 100})
	if err != nil {
		stdLog.Fatalf("Failed to list products: %v", err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		names[item.Name] = struct{}{}
	}
	for _, item := range products {
		if _, ok := names[item.Name]; ok {
			stdLog.Printf("Product already exists: %s", item.Name)
			continue
		}
		product, err := c.ProductService.ProposeProduct(service.ProposeProductInput{
			SupplierID:    supplier.ID,
			Name:          item.Name,
			Description:   item.Description,
			BuyingCost:    decimal.NewFromInt(item.Cost),
			ProposedPrice: decimal.NewFromInt(item.Price),
		})
		if err != nil {
			stdLog.Printf("Failed to propose product %s: %v", item.Name, err)
			continue
		}
		if _, err := c.ProductService.ValidateProduct(product.ID, admin.ID, decimal.NewFromInt(item.Price)); err != nil {
			stdLog.Printf("Product %s left pending: %v", item.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.Name)
	}

	stdLog.Printf("Seed finished, demo password: %s", demoPassword)
}

type stdLogf func(format string, v ...interface{})

// ensureAccount 账号已存在时直接返回
func ensureAccount(c *provider.Container, logf stdLogf, input service.CreateAccountInput) *models.User {
	user, err := c.UserRepo.GetByUsername(input.Username)
	if err != nil {
		logf("Failed to load account %s: %v", input.Username, err)
		return nil
	}
	if user != nil {
		logf("Account already exists: %s", input.Username)
		return user
	}
	created, err := c.AccountService.CreateAccount(input)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return nil
		}
		logf("Failed to create account %s: %v", input.Username, err)
		return nil
	}
	logf("Created %s account: %s", input.Role, input.Username)
	return created.User
}
