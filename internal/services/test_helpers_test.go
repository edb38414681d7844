package services_test

import (
	"github.com/getmentor/webhook-admin/pkg/logger"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}
