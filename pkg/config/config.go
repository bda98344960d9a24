package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const dateLayout = "2006-01-02"

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Timetable   TimetableConfig
	Overlap     OverlapConfig
	Calendar    CalendarConfig
	Exports     ExportsConfig
	Persistence PersistenceConfig
	Cache       CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TimetableConfig locates the three source workbooks and the grade to load.
type TimetableConfig struct {
	GridPath          string
	ClassroomPath     string
	MultiTeacherPath  string
	GridSheet         string
	ClassroomSheet    string
	MultiTeacherSheet string
	Grade             int
	BlockMargin       int
	LoadOnStart       bool
}

// OverlapConfig tunes the overlap analyzer.
type OverlapConfig struct {
	Threshold int
	TopK      int
	Workers   int
	MemoSize  int
}

// CalendarConfig bounds the weekly calendar export.
type CalendarConfig struct {
	TermStart time.Time
	TermEnd   time.Time
	Location  string
}

// ExportsConfig controls asynchronous export generation and storage.
type ExportsConfig struct {
	Enabled         bool
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	Workers         int
	Retries         int
	PDFFontPath     string
}

// PersistenceConfig toggles writing resolved rosters to Postgres.
type PersistenceConfig struct {
	Enabled bool
}

// CacheConfig toggles the Redis cache for overlap reports.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Timetable = TimetableConfig{
		GridPath:          v.GetString("TIMETABLE_GRID_PATH"),
		ClassroomPath:     v.GetString("TIMETABLE_CLASSROOM_PATH"),
		MultiTeacherPath:  v.GetString("TIMETABLE_MULTI_TEACHER_PATH"),
		GridSheet:         v.GetString("TIMETABLE_GRID_SHEET"),
		ClassroomSheet:    v.GetString("TIMETABLE_CLASSROOM_SHEET"),
		MultiTeacherSheet: v.GetString("TIMETABLE_MULTI_TEACHER_SHEET"),
		Grade:             v.GetInt("TIMETABLE_GRADE"),
		BlockMargin:       v.GetInt("TIMETABLE_BLOCK_MARGIN"),
		LoadOnStart:       v.GetBool("TIMETABLE_LOAD_ON_START"),
	}

	cfg.Overlap = OverlapConfig{
		Threshold: v.GetInt("OVERLAP_THRESHOLD"),
		TopK:      v.GetInt("OVERLAP_TOP_K"),
		Workers:   v.GetInt("OVERLAP_WORKERS"),
		MemoSize:  v.GetInt("OVERLAP_MEMO_SIZE"),
	}

	cfg.Calendar = CalendarConfig{
		TermStart: parseDate(v.GetString("TERM_START"), time.Date(2023, time.August, 14, 0, 0, 0, 0, time.UTC)),
		TermEnd:   parseDate(v.GetString("TERM_END"), time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)),
		Location:  v.GetString("TERM_TIMEZONE"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:         v.GetBool("ENABLE_EXPORTS"),
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		Workers:         v.GetInt("EXPORTS_WORKERS"),
		Retries:         v.GetInt("EXPORTS_RETRIES"),
		PDFFontPath:     v.GetString("EXPORTS_PDF_FONT_PATH"),
	}

	cfg.Persistence = PersistenceConfig{
		Enabled: v.GetBool("ENABLE_PERSISTENCE"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sma_timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "sma-timetable")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMETABLE_GRID_PATH", "./data/학생별 시간표.xlsx")
	v.SetDefault("TIMETABLE_CLASSROOM_PATH", "./data/강의실.xlsx")
	v.SetDefault("TIMETABLE_MULTI_TEACHER_PATH", "./data/과목별 다교사수업.xlsx")
	v.SetDefault("TIMETABLE_GRID_SHEET", "")
	v.SetDefault("TIMETABLE_CLASSROOM_SHEET", "2학기 강의실")
	v.SetDefault("TIMETABLE_MULTI_TEACHER_SHEET", "")
	v.SetDefault("TIMETABLE_GRADE", 2)
	v.SetDefault("TIMETABLE_BLOCK_MARGIN", 1)
	v.SetDefault("TIMETABLE_LOAD_ON_START", false)

	v.SetDefault("OVERLAP_THRESHOLD", 30)
	v.SetDefault("OVERLAP_TOP_K", 5)
	v.SetDefault("OVERLAP_WORKERS", 4)
	v.SetDefault("OVERLAP_MEMO_SIZE", 4096)

	v.SetDefault("TERM_START", "2023-08-14")
	v.SetDefault("TERM_END", "2023-12-31")
	v.SetDefault("TERM_TIMEZONE", "Asia/Seoul")

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_WORKERS", 1)
	v.SetDefault("EXPORTS_RETRIES", 2)
	v.SetDefault("EXPORTS_PDF_FONT_PATH", "")

	v.SetDefault("ENABLE_PERSISTENCE", false)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "10m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fallback
	}

	return t
}

// isMissingFile reports a .env that does not exist, which viper surfaces as a
// path error rather than ConfigFileNotFoundError when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
