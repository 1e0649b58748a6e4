package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const sampleYAML = `
server:
  port: 9090
  read_timeout: 5s
idgen:
  process_name: idgen
  retry_count: 64
  domains:
    - name: orders
      constraints:
        - type: partition
          partitioner: murmur3
          partitions: 16
          allowed: [1, 2]
`

type ViperConfigSuite struct {
	suite.Suite

	dir string
}

func (s *ViperConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ViperConfigSuite) writeFile(name, content string) string {
	path := filepath.Join(s.dir, name)
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ViperConfigSuite) TestInit_TableDriven() {
	tests := []struct {
		name      string
		setup     func() Options
		assertion func(ConfigProvider, error)
	}{
		{
			name: "prefers yaml",
			setup: func() Options {
				return Options{
					YAMLPath: s.writeFile("config.yaml", sampleYAML),
					EnvPath:  s.writeFile(".env", "SERVER_PORT=7070\n"),
				}
			},
			assertion: func(cfg ConfigProvider, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), "yaml", cfg.Source())
				assert.Equal(s.T(), 9090, cfg.GetInt("server.port"))
				assert.Equal(s.T(), 5*time.Second, cfg.GetDuration("server.read_timeout"))
			},
		},
		{
			name: "falls back to env file",
			setup: func() Options {
				return Options{
					YAMLPath: filepath.Join(s.dir, "missing.yaml"),
					EnvPath:  s.writeFile(".env", "SERVER_PORT=7070\n"),
				}
			},
			assertion: func(cfg ConfigProvider, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), "env", cfg.Source())
				assert.Equal(s.T(), 7070, cfg.GetInt("SERVER_PORT"))
			},
		},
		{
			name: "fails without any file",
			setup: func() Options {
				return Options{YAMLPath: filepath.Join(s.dir, "missing.yaml")}
			},
			assertion: func(cfg ConfigProvider, err error) {
				assert.ErrorContains(s.T(), err, "no config file found")
				assert.Nil(s.T(), cfg)
			},
		},
		{
			name: "fails on malformed yaml",
			setup: func() Options {
				return Options{YAMLPath: s.writeFile("config.yaml", "server: [unterminated")}
			},
			assertion: func(_ ConfigProvider, err error) {
				assert.ErrorContains(s.T(), err, "failed to read yaml file")
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			cfg, err := Init(tc.setup())
			tc.assertion(cfg, err)
		})
	}
}

func (s *ViperConfigSuite) TestEnvironmentOverridesFile() {
	s.T().Setenv("IDGEN_RETRY_COUNT", "8")

	cfg, err := Init(Options{YAMLPath: s.writeFile("config.yaml", sampleYAML)})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 8, cfg.GetInt("idgen.retry_count"))
	assert.Equal(s.T(), "idgen", cfg.GetString("idgen.process_name"))
}

func (s *ViperConfigSuite) TestEnvironmentPrefix() {
	s.T().Setenv("APP_SERVER_PORT", "1234")

	cfg, err := Init(Options{YAMLPath: s.writeFile("config.yaml", sampleYAML), EnvPrefix: "APP"})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 1234, cfg.GetInt("server.port"))
}

func (s *ViperConfigSuite) TestUnmarshalKey() {
	type constraint struct {
		Type        string `mapstructure:"type"`
		Partitioner string `mapstructure:"partitioner"`
		Partitions  int    `mapstructure:"partitions"`
		Allowed     []int  `mapstructure:"allowed"`
	}
	type definition struct {
		Name        string       `mapstructure:"name"`
		Constraints []constraint `mapstructure:"constraints"`
	}

	cfg, err := Init(Options{YAMLPath: s.writeFile("config.yaml", sampleYAML)})
	require.NoError(s.T(), err)

	var definitions []definition
	require.NoError(s.T(), cfg.UnmarshalKey("idgen.domains", &definitions))

	require.Len(s.T(), definitions, 1)
	assert.Equal(s.T(), "orders", definitions[0].Name)
	assert.Equal(s.T(), constraint{Type: "partition", Partitioner: "murmur3", Partitions: 16, Allowed: []int{1, 2}}, definitions[0].Constraints[0])

	var wrong int
	assert.ErrorContains(s.T(), cfg.UnmarshalKey("idgen.domains", &wrong), `failed to decode "idgen.domains"`)
}

func TestViperConfigSuite(t *testing.T) {
	suite.Run(t, new(ViperConfigSuite))
}
