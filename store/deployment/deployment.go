package deployment

import (
	"context"
	"encoding/json"

	"creditrust/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.DeploymentRecord{})
		if err := tx.AutoMigrate(core.DeploymentRecord{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// New new deployment history store
func New(db *db.DB) core.DeploymentStore {
	return &deploymentStore{db: db}
}

type deploymentStore struct {
	db *db.DB
}

func (s *deploymentStore) Create(ctx context.Context, deployment *core.Deployment) error {
	data, err := json.Marshal(deployment)
	if err != nil {
		return err
	}

	record := &core.DeploymentRecord{
		Network: deployment.Network,
		ChainID: deployment.ChainID,
		Vault:   deployment.VaultAddress().Hex(),
		Data:    data,
	}

	return s.db.Update().Where("vault = ?", record.Vault).FirstOrCreate(record).Error
}

func decode(record *core.DeploymentRecord) (*core.Deployment, error) {
	var deployment core.Deployment
	if err := json.Unmarshal(record.Data, &deployment); err != nil {
		return nil, err
	}

	return &deployment, nil
}

func (s *deploymentStore) Latest(ctx context.Context, network string) (*core.Deployment, error) {
	var record core.DeploymentRecord
	err := s.db.View().Where("network = ?", network).Order("id DESC").First(&record).Error
	if store.IsErrNotFound(err) {
		return nil, core.ErrNoDeployment
	}

	if err != nil {
		return nil, err
	}

	return decode(&record)
}

func (s *deploymentStore) List(ctx context.Context, network string) ([]*core.Deployment, error) {
	var records []*core.DeploymentRecord
	if err := s.db.View().Where("network = ?", network).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	deployments := make([]*core.Deployment, 0, len(records))
	for _, r := range records {
		d, err := decode(r)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, d)
	}

	return deployments, nil
}
