package bootstrap

import (
	"github.com/PicardRaphael/todo-api-go/pkg/audit"
	log "github.com/PicardRaphael/todo-api-go/pkg/logger"
)

// InitAudit connects the Kafka audit trail. Returns (nil, nil) when
// disabled; a nil trail still logs security events locally.
func InitAudit(cfg audit.Config) (*audit.Trail, error) {
	trail, err := audit.NewTrail(cfg)
	if err != nil {
		return nil, err
	}
	if trail == nil {
		log.Info("audit trail disabled, security events go to the log only")
		return nil, nil
	}
	log.WithField("topic", cfg.Topic).Info("audit trail initialized")
	return trail, nil
}
