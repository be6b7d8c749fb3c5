package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	Platform  PlatformConfig  `yaml:"platform"`
	Drive     DriveConfig     `yaml:"drive"`
	Registry  RegistryConfig  `yaml:"registry"`
	Provision ProvisionConfig `yaml:"provision"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	PoolSize       int    `yaml:"pool_size"`
	ProvisionQueue string `yaml:"provision_queue"`
	CleanupQueue   string `yaml:"cleanup_queue"`
	DLQSuffix      string `yaml:"dlq_suffix"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// PlatformConfig points at the course-management platform API.
type PlatformConfig struct {
	BaseURL      string        `yaml:"base_url"`
	AuthEndpoint string        `yaml:"auth_endpoint"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	TokenExpires time.Duration `yaml:"token_expires"`
	Timeout      time.Duration `yaml:"timeout"`
}

// DriveConfig points at the hierarchical document store API.
type DriveConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RootAlias string        `yaml:"root_alias"`
}

type RegistryConfig struct {
	WorkbookPath string `yaml:"workbook_path"`
	SheetName    string `yaml:"sheet_name"`
}

type ProvisionConfig struct {
	Timezone string       `yaml:"timezone"`
	Layout   LayoutConfig `yaml:"layout"`
}

// LayoutConfig names the conventional subfolders of a lesson folder. The
// hierarchy is fixed; only the labels are configurable.
type LayoutConfig struct {
	TemplateFolder   string `yaml:"template_folder"`
	FormTemplateName string `yaml:"form_template_name"`
	SlidesFolder     string `yaml:"slides_folder"`
	ReferenceFolder  string `yaml:"reference_folder"`
	AssignmentFolder string `yaml:"assignment_folder"`
	WorksheetsFolder string `yaml:"worksheets_folder"`
	CheckDataFolder  string `yaml:"check_data_folder"`
	AnswersFolder    string `yaml:"answers_folder"`
	InstructionsFile string `yaml:"instructions_file"`
}

type CleanupConfig struct {
	TeacherEmail string `yaml:"teacher_email"`
	RootMarker   string `yaml:"root_marker"`
	ApplyRenames bool   `yaml:"apply_renames"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Drive.RootAlias == "" {
		c.Drive.RootAlias = "My Drive"
	}
	if c.Cleanup.RootMarker == "" {
		c.Cleanup.RootMarker = "Classroom"
	}
	l := &c.Provision.Layout
	if l.TemplateFolder == "" {
		l.TemplateFolder = "Template"
	}
	if l.FormTemplateName == "" {
		l.FormTemplateName = "attendance"
	}
	if l.SlidesFolder == "" {
		l.SlidesFolder = "slides"
	}
	if l.ReferenceFolder == "" {
		l.ReferenceFolder = "reference"
	}
	if l.AssignmentFolder == "" {
		l.AssignmentFolder = "assignment"
	}
	if l.WorksheetsFolder == "" {
		l.WorksheetsFolder = "worksheets"
	}
	if l.CheckDataFolder == "" {
		l.CheckDataFolder = "checkdata"
	}
	if l.AnswersFolder == "" {
		l.AnswersFolder = "answers"
	}
	if l.InstructionsFile == "" {
		l.InstructionsFile = "instructions.pdf"
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
