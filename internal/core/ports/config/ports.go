package configports

import (
	"context"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
)

type Loader interface {
	Load(ctx context.Context) (configdomain.Snapshot, error)
	Name() string
}

type Validator interface {
	Validate(cfg *configdomain.DeployConfig) error
}
