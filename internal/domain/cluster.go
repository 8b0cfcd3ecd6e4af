// Package domain defines the core entities and interfaces for kafka-vault:
// cluster connection settings, topic and partition metadata, backup run data,
// and the abstractions over broker clients and backup storage.
package domain

// BrokerStatus holds the identity and address of one broker in a cluster.
type BrokerStatus struct {
	ID   int32  `json:"id"`
	Host string `json:"host"`
	Port int32  `json:"port"`
}

// BrokerStatusResult is the cluster-level broker listing returned at the
// boundary.
type BrokerStatusResult struct {
	ClusterID    string         `json:"cluster_id"`
	Brokers      []BrokerStatus `json:"brokers"`
	TotalBrokers int            `json:"total_brokers"`
}
