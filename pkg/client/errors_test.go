package client

import "testing"

func TestDecodeAPIError(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   Error
		wantOK bool
	}{
		{
			name:   "code and message",
			body:   `{"code":400,"message":"bad input"}`,
			want:   Error{Code: 400, Message: "bad input"},
			wantOK: true,
		},
		{
			name:   "extra fields ignored",
			body:   `{"code":422,"message":"invalid","details":["a"]}`,
			want:   Error{Code: 422, Message: "invalid"},
			wantOK: true,
		},
		{
			name:   "missing code",
			body:   `{"message":"bad input"}`,
			wantOK: false,
		},
		{
			name:   "missing message",
			body:   `{"code":400}`,
			wantOK: false,
		},
		{
			name:   "zero code",
			body:   `{"code":0,"message":"bad input"}`,
			wantOK: false,
		},
		{
			name:   "empty message",
			body:   `{"code":400,"message":""}`,
			wantOK: false,
		},
		{
			name:   "code is not a number",
			body:   `{"code":"400","message":"bad input"}`,
			wantOK: false,
		},
		{
			name:   "message is not a string",
			body:   `{"code":400,"message":{"text":"bad"}}`,
			wantOK: false,
		},
		{
			name:   "not json",
			body:   `bad input`,
			wantOK: false,
		},
		{
			name:   "json array",
			body:   `[1,2]`,
			wantOK: false,
		},
		{
			name:   "empty body",
			body:   ``,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeAPIError([]byte(tt.body))
			if ok != tt.wantOK {
				t.Fatalf("decodeAPIError() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if got != nil {
					t.Errorf("decodeAPIError() = %+v, want nil", got)
				}
				return
			}
			if *got != tt.want {
				t.Errorf("decodeAPIError() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
