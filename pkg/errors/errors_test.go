package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeValidationFail, http.StatusBadRequest},
		{CodeNilPool, http.StatusBadRequest},
		{CodeScenarioNotFound, http.StatusNotFound},
		{CodeWorkerNotFound, http.StatusNotFound},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeEmptyPool, http.StatusUnprocessableEntity},
		{CodeSnapshotCorrupt, http.StatusInternalServerError},
		{CodeDatabaseError, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if status := New(tt.code, "test").HTTPStatus; status != tt.expected {
				t.Errorf("HTTPStatus = %d, expected %d", status, tt.expected)
			}
		})
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("底层错误")
	err := Wrap(cause, CodeDatabaseError, "保存失败")

	if err.Unwrap() != cause {
		t.Error("Unwrap 应返回底层错误")
	}
	if !Is(err, CodeDatabaseError) {
		t.Error("Is 应匹配错误码")
	}
	if GetCode(err) != CodeDatabaseError {
		t.Errorf("GetCode = %v", GetCode(err))
	}
	if GetCode(cause) != CodeUnknown {
		t.Errorf("非AppError应返回 CodeUnknown, got %v", GetCode(cause))
	}
	if GetHTTPStatus(cause) != http.StatusInternalServerError {
		t.Errorf("非AppError状态码 = %d", GetHTTPStatus(cause))
	}
}

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() {
		t.Error("初始不应有错误")
	}

	ve.Add("scenario_id", "不能为空")
	ve.Add("tasks", "任务列表不能为空")

	if !ve.HasErrors() {
		t.Error("添加后应有错误")
	}

	appErr := ve.ToAppError()
	if appErr.Code != CodeValidationFail {
		t.Errorf("Code = %v", appErr.Code)
	}
	if len(appErr.Fields) != 2 {
		t.Errorf("Fields = %v", appErr.Fields)
	}
	if appErr.Fields["scenario_id"] != "不能为空" {
		t.Errorf("字段消息 = %v", appErr.Fields["scenario_id"])
	}
}

func TestAppError_Error(t *testing.T) {
	plain := New(CodeNotFound, "资源不存在")
	if plain.Error() != "[NOT_FOUND] 资源不存在" {
		t.Errorf("Error() = %q", plain.Error())
	}

	wrapped := Wrap(fmt.Errorf("io失败"), CodeInternal, "处理失败")
	if wrapped.Error() != "[INTERNAL_ERROR] 处理失败: io失败" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
