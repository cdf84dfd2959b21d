package users

import (
	"strconv"

	"github.com/baechuer/user-service/internal/domain"
)

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		return code
	}
	return "non_domain_error"
}

// auditFields builds the common field set for admin actions.
func auditFields(actorID, targetID int64, result string, err error) map[string]string {
	fields := map[string]string{
		"actor_id": strconv.FormatInt(actorID, 10),
		"result":   result,
	}
	if targetID > 0 {
		fields["target_id"] = strconv.FormatInt(targetID, 10)
	}
	if err != nil {
		fields["error_code"] = domainCode(err)
	}
	return fields
}
