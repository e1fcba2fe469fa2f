package main

import (
	"context"
	"log"
	"time"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くても起動できる（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Tenant{},
		&model.Product{},
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	tenantRepo := infraRepo.NewTenantGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)

	//カートスナップショット保存先（Redis）とストア管理
	redisClient := cache.Connect()
	snapshots := cache.NewCartSnapshotStore(redisClient, cfg.CartTTL)
	cartMgr := cart.NewManager(snapshots, cfg.CartIdleTTL)
	cartMgr.StartJanitor(context.Background(), 5*time.Minute)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := newJWTIssuer(cfg.JWTSecret)

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(productRepo)

	//Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC, userRepo, refreshTTL, cfg)
	productH := handler.NewProductHandler(productUC)
	themeH := handler.NewThemeHandler()
	cartH := handler.NewCartHandler(cartUC)

	//開発用のデモデータ投入
	if cfg.GoEnv == "dev" {
		if err := seedDemo(context.Background(), tenantRepo, productRepo); err != nil {
			log.Printf("seed skipped: %v", err)
		}
	}

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, tenantRepo, cartMgr, authH, productH, themeH, cartH)

	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// デモ用テナントと商品を入れる（既にあれば何もしない）
func seedDemo(
	ctx context.Context,
	tenantRepo interface {
		FindBySlug(ctx context.Context, slug string) (model.Tenant, error)
		Create(ctx context.Context, t model.Tenant) (model.Tenant, error)
	},
	productRepo interface {
		Create(ctx context.Context, p model.Product) (model.Product, error)
	},
) error {
	if _, err := tenantRepo.FindBySlug(ctx, "demo"); err == nil {
		return nil
	}

	t, err := tenantRepo.Create(ctx, model.Tenant{
		Slug:              "demo",
		Name:              "Demo Store",
		ThemePrimaryColor: "#111111",
		ThemeAccentColor:  "#3b82f6",
		IsActive:          true,
	})
	if err != nil {
		return err
	}

	demo := []model.Product{
		{TenantID: t.ID, Name: "Tシャツ", Price: decimal.NewFromInt(2900), Stock: 100, IsActive: true},
		{TenantID: t.ID, Name: "パーカー", Price: decimal.NewFromInt(5900), DiscountPercent: decimal.NewFromInt(20), Stock: 50, IsActive: true},
		{TenantID: t.ID, Name: "マグカップ", Price: decimal.NewFromInt(1500), Stock: 200, IsActive: true},
	}
	for _, p := range demo {
		if _, err := productRepo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
