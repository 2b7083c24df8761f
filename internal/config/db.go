package config

// Database engines supported by db.Open.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // mysql, postgres or sqlite
	Extras   string // driver specific DSN options
	Host     string
	Port     int
	User     string
	Password string
	Name     string // database name, file path for sqlite

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}
