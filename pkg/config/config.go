package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the authz CLI
const (
	EnvAuthzPersistenceType = "AUTHZ_PERSISTENCE_TYPE"
	EnvAuthzDataPath        = "AUTHZ_DATA_PATH"
	EnvAuthzRedisAddress    = "AUTHZ_REDIS_ADDRESS"
	EnvAuthzRedisPassword   = "AUTHZ_REDIS_PASSWORD"
	EnvAuthzRedisDB         = "AUTHZ_REDIS_DB"
	EnvAuthzRedisKeyPrefix  = "AUTHZ_REDIS_KEY_PREFIX"
	EnvAuthzChainID         = "AUTHZ_CHAIN_ID"
	EnvAuthzVerbose         = "AUTHZ_VERBOSE"
)

type PersistenceType string

func (p PersistenceType) String() string {
	return string(p)
}

const (
	PersistenceTypeMemory PersistenceType = "memory"
	PersistenceTypeBadger PersistenceType = "badger"
	PersistenceTypeRedis  PersistenceType = "redis"
)

// GetSupportedPersistenceTypes returns all supported persistence backends
func GetSupportedPersistenceTypes() []PersistenceType {
	return []PersistenceType{
		PersistenceTypeMemory,
		PersistenceTypeBadger,
		PersistenceTypeRedis,
	}
}

// GetSupportedPersistenceTypesString returns the backends joined for CLI help
func GetSupportedPersistenceTypesString() string {
	types := GetSupportedPersistenceTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

// ParsePersistenceType converts a flag value to a PersistenceType
func ParsePersistenceType(s string) (PersistenceType, error) {
	for _, t := range GetSupportedPersistenceTypes() {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported persistence type %q. Supported: %s", s, GetSupportedPersistenceTypesString())
}

type RedisConfig struct {
	Address   string `json:"address" yaml:"address"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

type PersistenceConfig struct {
	Type     PersistenceType `json:"type" yaml:"type"`
	DataPath string          `json:"dataPath" yaml:"dataPath"` // badger only
	Redis    *RedisConfig    `json:"redis,omitempty" yaml:"redis,omitempty"`
}

func (pc *PersistenceConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList

	switch pc.Type {
	case PersistenceTypeMemory:
	case PersistenceTypeBadger:
		if pc.DataPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("dataPath"), "dataPath is required for badger persistence"))
		}
	case PersistenceTypeRedis:
		if pc.Redis == nil {
			allErrors = append(allErrors, field.Required(path.Child("redis"), "redis settings are required for redis persistence"))
			break
		}
		if pc.Redis.Address == "" {
			allErrors = append(allErrors, field.Required(path.Child("redis", "address"), "address is required"))
		}
		if pc.Redis.DB < 0 || pc.Redis.DB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redis", "db"), pc.Redis.DB, "db must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), pc.Type, []string{
			PersistenceTypeMemory.String(),
			PersistenceTypeBadger.String(),
			PersistenceTypeRedis.String(),
		}))
	}
	return allErrors
}

// Validate validates the persistence configuration
func (pc *PersistenceConfig) Validate() error {
	if errs := pc.validate(field.NewPath("persistence")); len(errs) > 0 {
		return errs.ToAggregate()
	}
	return nil
}

// AttacherConfig configures the signature attachment service
type AttacherConfig struct {
	// ChainID, when set, restricts submitted transactions to this chain
	ChainID     string            `json:"chainId" yaml:"chainId"`
	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`
	Verbose     bool              `json:"verbose" yaml:"verbose"`
}

// Validate validates the attacher configuration
func (c *AttacherConfig) Validate() error {
	var allErrors field.ErrorList
	if strings.TrimSpace(c.ChainID) != c.ChainID {
		allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID, "chainId must not have surrounding whitespace"))
	}
	allErrors = append(allErrors, c.Persistence.validate(field.NewPath("persistence"))...)
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
