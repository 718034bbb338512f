package service

// ConflictError 唯一性冲突（项目编号、供应商名称、运单号等）
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// BusinessError 业务规则冲突（状态流转非法、已确认记录不可改等）
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// BadRequestError 请求内容不合法
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// ValidationError 字段级校验失败
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}
