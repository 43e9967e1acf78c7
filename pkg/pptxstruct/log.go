package pptxstruct

import "github.com/flanksource/commons/logger"

var log = logger.GetLogger("pptxstruct")
