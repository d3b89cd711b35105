package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/muims-dev/muims/models"
	"github.com/muims-dev/muims/repositories"
)

// LogAuditWithConsole records an audit row and reports failures on the
// console instead of failing the request. Overridable in tests.
var LogAuditWithConsole = func(c *gin.Context, action, resourceType, resourceID string, oldData, newData interface{}, msg string, repo repositories.AuditRepo) {
	if err := LogAudit(c, action, resourceType, resourceID, oldData, newData, msg, repo); err != nil {
		fmt.Printf("[LogAudit] error: %v\n", err)
	}
}

func LogAudit(
	c *gin.Context,
	action string,
	resourceType string,
	resourceID string,
	before any,
	after any,
	description string,
	repo repositories.AuditRepo,
) error {
	var oldData, newData []byte
	var err error

	if before != nil {
		oldData, err = json.Marshal(before)
		if err != nil {
			log.Printf("Audit marshal oldData error: %v", err)
		}
	}
	if after != nil {
		newData, err = json.Marshal(after)
		if err != nil {
			log.Printf("Audit marshal newData error: %v", err)
		}
	}

	audit := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldData:      oldData,
		NewData:      newData,
		Description:  description,
	}
	if c != nil {
		audit.IPAddress = c.ClientIP()
		audit.UserAgent = c.GetHeader("User-Agent")
	}

	return repo.CreateAuditLog(audit)
}
