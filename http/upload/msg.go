package upload

const (
	badFormMsg      = "업로드 요청의 형식이 올바르지 않습니다. (%s)"
	bodyTooLargeMsg = "업로드 요청의 용량이 너무 큽니다. (최대 %dMB)"
	noFileMsg       = "업로드된 파일이 없습니다."
	notImageMsg     = "이미지 파일만 업로드 가능합니다."
	tooLargeMsg     = "%s 파일의 용량이 너무 큽니다. (최대 %dMB)"
	tooManyMsg      = "한 번에 최대 %d개의 파일만 업로드할 수 있습니다."
)
