package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	configFileBase = "exam_config"
	dateLayout     = "2006-01-02"
)

// Sheets names the worksheets of the input workbook
type Sheets struct {
	Teachers   string `yaml:"teachers"`
	Timetable  string `yaml:"timetable"`
	Exclusions string `yaml:"exclusions"`
}

// ExamCalendar describes the exam days and how many periods each day has.
// When set, timetable and exclusion period labels must be "Day <d> Period <p>".
type ExamCalendar struct {
	Start         string `yaml:"start" validate:"required,datetime=2006-01-02"`
	RRule         string `yaml:"rrule" validate:"required"`
	PeriodsPerDay int    `yaml:"periodsPerDay" validate:"required,min=1"`
}

// StartDate parses the calendar start date
func (c *ExamCalendar) StartDate() (time.Time, error) {
	return time.Parse(dateLayout, c.Start)
}

// Config represents the application configuration
type Config struct {
	// Workbook is the path to the input .xlsx workbook, relative paths resolve against the config file
	Workbook string `yaml:"workbook" validate:"required"`
	Sheets   Sheets `yaml:"sheets"`

	// RoomCounts maps grade -> number of class sections
	RoomCounts map[int]int `yaml:"roomCounts" validate:"required,min=1,dive,keys,min=1,endkeys,min=1,max=30"`

	SelfStudySubjects []string      `yaml:"selfStudySubjects,omitempty" validate:"dive,required"`
	Attempts          int           `yaml:"attempts,omitempty" validate:"min=1,max=1000"`
	ExamCalendar      *ExamCalendar `yaml:"examCalendar,omitempty"`
	OutputDir         string        `yaml:"outputDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from exam_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// exam_config.<env>.yaml is preferred over exam_config.yaml in each searched directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads, defaults and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()

	if cfg.Workbook != "" && !filepath.IsAbs(cfg.Workbook) {
		cfg.Workbook = filepath.Join(filepath.Dir(path), cfg.Workbook)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills in every optional field left empty
func (c *Config) ApplyDefaults() {
	if c.Sheets.Teachers == "" {
		c.Sheets.Teachers = "Teachers"
	}
	if c.Sheets.Timetable == "" {
		c.Sheets.Timetable = "Timetable"
	}
	if c.Sheets.Exclusions == "" {
		c.Sheets.Exclusions = "Exclusions"
	}
	if len(c.SelfStudySubjects) == 0 {
		c.SelfStudySubjects = []string{"Self-study", "자습"}
	}
	if c.Attempts == 0 {
		c.Attempts = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.ExamCalendar != nil {
		if _, err := rrule.StrToRRule(cfg.ExamCalendar.RRule); err != nil {
			return fmt.Errorf("invalid rrule in examCalendar: %w", err)
		}
	}

	return nil
}

// findConfigFile searches the current directory and then the home directory
func findConfigFile(env string) (string, error) {
	names := []string{configFileBase + ".yaml"}
	if env != "" {
		names = append([]string{fmt.Sprintf("%s.%s.yaml", configFileBase, env)}, names...)
	}

	dirs := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir)
	}

	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("none of %v found in current directory or home directory", names)
}
