// Package store loads and caches the three configuration documents backing
// response generation: the template catalog, the standard response bodies,
// and the company profile.
//
// Each document is loaded lazily on first access and cached for the life of
// the process until Reload invalidates the cache. The store is read-only
// after load; Reload is not safe to call concurrently with in-flight lookups
// and callers must serialize it against active requests.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Sentinel errors for configuration loading and template lookup. Loading
// failures are fatal to the operation that needed the document, not to the
// process.
var (
	ErrConfigNotFound   = errors.New("store: config file not found")
	ErrConfigParse      = errors.New("store: config file invalid")
	ErrTemplateNotFound = errors.New("store: template not found")
)

// Document file names, relative to the store's base directory.
const (
	templatesFile = "templates_config.json"
	responsesFile = "standard_responses.json"
	companyFile   = "company_config.json"
)

// companyDoc mirrors the company_config.json layout. Department entries keep
// arbitrary extra keys so templates can reference fields beyond the core set.
type companyDoc struct {
	CompanyName    string                       `mapstructure:"company_name"`
	CompanyType    string                       `mapstructure:"company_type"`
	CompanyAddress string                       `mapstructure:"company_address"`
	CompanyWebsite string                       `mapstructure:"company_website"`
	CompanyPhone   string                       `mapstructure:"company_phone"`
	CompanyEmail   string                       `mapstructure:"company_email"`
	Departments    map[string]map[string]string `mapstructure:"departments"`
}

// Store holds the lazily loaded configuration tables.
type Store struct {
	baseDir string
	log     *zap.Logger

	templates map[string]string
	responses map[string]string
	company   *companyDoc
}

// New returns a Store reading documents from baseDir. Nothing is loaded
// until first access.
func New(baseDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{baseDir: baseDir, log: log}
}

// Reload drops all cached tables so the next access re-reads from disk.
func (s *Store) Reload() {
	s.templates = nil
	s.responses = nil
	s.company = nil
	s.log.Info("configuration cache invalidated")
}

// loadStringMap reads a flat string-to-string JSON document.
func (s *Store) loadStringMap(filename string) (map[string]string, error) {
	v, err := s.read(filename)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, filename, err)
	}
	return m, nil
}

// read opens and parses one JSON document.
func (s *Store) read(filename string) (*viper.Viper, error) {
	path := filepath.Join(s.baseDir, filename)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrConfigNotFound, filename, s.baseDir)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, filename, err)
	}
	s.log.Debug("loaded config document", zap.String("file", filename))
	return v, nil
}

func (s *Store) ensureTemplates() error {
	if s.templates != nil {
		return nil
	}
	m, err := s.loadStringMap(templatesFile)
	if err != nil {
		return err
	}
	s.templates = m
	return nil
}

func (s *Store) ensureResponses() error {
	if s.responses != nil {
		return nil
	}
	m, err := s.loadStringMap(responsesFile)
	if err != nil {
		return err
	}
	s.responses = m
	return nil
}

func (s *Store) ensureCompany() error {
	if s.company != nil {
		return nil
	}
	v, err := s.read(companyFile)
	if err != nil {
		return err
	}
	var doc companyDoc
	if err := v.Unmarshal(&doc); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigParse, companyFile, err)
	}
	s.company = &doc
	return nil
}

// TemplateKeys returns the catalog's template keys in sorted order.
func (s *Store) TemplateKeys() ([]string, error) {
	if err := s.ensureTemplates(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.templates))
	for k := range s.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// TemplatePrompt returns the descriptive prompt metadata for a template key.
func (s *Store) TemplatePrompt(key string) (string, error) {
	if err := s.ensureTemplates(); err != nil {
		return "", err
	}
	p, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, key)
	}
	return p, nil
}

// StandardResponse returns the standard response body for a template key.
func (s *Store) StandardResponse(key string) (string, error) {
	if err := s.ensureResponses(); err != nil {
		return "", err
	}
	body, ok := s.responses[key]
	if !ok {
		return "", fmt.Errorf("%w: %q in standard responses", ErrTemplateNotFound, key)
	}
	return body, nil
}

// DepartmentInfo resolves the company profile for a department key: the base
// company fields overlaid with the department's own entries. Unknown
// department keys resolve to a generic Customer Service profile backed by
// the company's main contact details.
func (s *Store) DepartmentInfo(deptKey string) (map[string]string, error) {
	if err := s.ensureCompany(); err != nil {
		return nil, err
	}
	c := s.company

	info := map[string]string{
		"company_name":    c.CompanyName,
		"company_type":    c.CompanyType,
		"company_address": c.CompanyAddress,
		"company_website": c.CompanyWebsite,
		"company_phone":   c.CompanyPhone,
		"company_email":   c.CompanyEmail,
	}
	if info["company_name"] == "" {
		info["company_name"] = "Our Company"
	}
	if info["company_type"] == "" {
		info["company_type"] = "Organization"
	}

	if dept, ok := c.Departments[deptKey]; ok {
		for k, v := range dept {
			info[k] = v
		}
	} else {
		info["department"] = "Customer Service"
		info["representative_name"] = "Customer Service Team"
		info["contact_phone"] = info["company_phone"]
		info["contact_email"] = info["company_email"]
		info["hours"] = "Business hours"
	}
	return info, nil
}

// Departments lists the configured departments as key → display name.
// A department without a display name falls back to its title-cased key.
func (s *Store) Departments() (map[string]string, error) {
	if err := s.ensureCompany(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(s.company.Departments))
	for key, dept := range s.company.Departments {
		name := dept["department"]
		if name == "" {
			name = titleKey(key)
		}
		out[key] = name
	}
	return out, nil
}

// titleKey turns a snake_case key into a display name, e.g.
// "claims_processing" → "Claims Processing".
func titleKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
