package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ClusterConfig holds the connection settings for one Kafka cluster.
// Credentials may be provided inline or via env var names.
type ClusterConfig struct {
	ID               string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name             string   `yaml:"name" json:"name"`
	BootstrapServers []string `yaml:"bootstrap_servers" json:"bootstrap_servers"`
	SASLUsername     string   `yaml:"sasl_username,omitempty" json:"sasl_username,omitempty"`
	SASLPassword     string   `yaml:"sasl_password,omitempty" json:"sasl_password,omitempty"`
	SASLMechanism    string   `yaml:"sasl_mechanism,omitempty" json:"sasl_mechanism,omitempty"` // e.g. PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	SecurityProtocol string   `yaml:"security_protocol,omitempty" json:"security_protocol,omitempty"`
	ClientID         string   `yaml:"client_id,omitempty" json:"client_id,omitempty"`
}

// ClusterPatch is a partial update of a ClusterConfig. Nil fields are left
// untouched when the patch is applied.
type ClusterPatch struct {
	Name             *string  `json:"name,omitempty"`
	BootstrapServers []string `json:"bootstrap_servers,omitempty"`
	SASLUsername     *string  `json:"sasl_username,omitempty"`
	SASLPassword     *string  `json:"sasl_password,omitempty"`
	SASLMechanism    *string  `json:"sasl_mechanism,omitempty"`
	SecurityProtocol *string  `json:"security_protocol,omitempty"`
}

// Apply merges the patch onto c and returns the merged copy. The receiver is
// not modified.
func (c ClusterConfig) Apply(p ClusterPatch) ClusterConfig {
	out := c
	out.BootstrapServers = append([]string(nil), c.BootstrapServers...)
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.BootstrapServers != nil {
		out.BootstrapServers = append([]string(nil), p.BootstrapServers...)
	}
	if p.SASLUsername != nil {
		out.SASLUsername = *p.SASLUsername
	}
	if p.SASLPassword != nil {
		out.SASLPassword = *p.SASLPassword
	}
	if p.SASLMechanism != nil {
		out.SASLMechanism = *p.SASLMechanism
	}
	if p.SecurityProtocol != nil {
		out.SecurityProtocol = *p.SecurityProtocol
	}
	return out
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ClusterPatch) IsEmpty() bool {
	return p.Name == nil && p.BootstrapServers == nil && p.SASLUsername == nil &&
		p.SASLPassword == nil && p.SASLMechanism == nil && p.SecurityProtocol == nil
}

// FileConfig is the on-disk shape of the cluster profiles file.
type FileConfig struct {
	Clusters []ClusterConfig `yaml:"clusters" json:"clusters"`
}

func ReadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func WriteConfig(path string, cfg FileConfig) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// AuthType returns a human-readable authentication type for the cluster.
func (c *ClusterConfig) AuthType() string {
	if c.SASLMechanism != "" {
		return "SASL/" + c.SASLMechanism
	}
	if c.SecurityProtocol != "" {
		return c.SecurityProtocol
	}
	return "PLAINTEXT"
}
