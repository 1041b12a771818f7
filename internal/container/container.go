package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/projecthub/config"
	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

// app-level container to share constructed components across packages.
// cmd/main fills it once at startup; the router wires modules from it.
// Optional components (redis, pool, mailer, avatars, directory) may be nil.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.Store
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	hasher     *helpers.PasswordHasher

	confirmMailer app.ConfirmationMailer
	avatars       app.AvatarStorage
	directory     app.UserDirectory
)

func SetConfig(c *config.Config)           { cfg = c }
func GetConfig() *config.Config            { return cfg }
func SetLogger(l *logrus.Logger)           { logger = l }
func GetLogger() *logrus.Logger            { return logger }
func SetStore(s repository.Store)          { store = s }
func GetStore() repository.Store           { return store }
func SetPGPool(p *pgxpool.Pool)            { pgPool = p }
func GetPGPool() *pgxpool.Pool             { return pgPool }
func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetJWT(m *helpers.JWTManager)         { jwtManager = m }
func GetJWT() *helpers.JWTManager          { return jwtManager }
func SetHasher(h *helpers.PasswordHasher)  { hasher = h }
func GetHasher() *helpers.PasswordHasher   { return hasher }
func SetMailer(m app.ConfirmationMailer)   { confirmMailer = m }
func GetMailer() app.ConfirmationMailer    { return confirmMailer }
func SetAvatarStorage(a app.AvatarStorage) { avatars = a }
func GetAvatarStorage() app.AvatarStorage  { return avatars }
func SetUserDirectory(d app.UserDirectory) { directory = d }
func GetUserDirectory() app.UserDirectory  { return directory }
