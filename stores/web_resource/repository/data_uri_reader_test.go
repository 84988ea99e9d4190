package repository

import (
	"reflect"
	"testing"

	bCtx "github.com/musicnft/goapi/base/ctx"
)

func Test_dataUriReaderRepo_Get(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    []byte
		wantErr bool
	}{
		{
			name:    "invalid schema",
			uri:     "https://url",
			wantErr: true,
		},
		{
			name:    "no data part",
			uri:     "data:application/json;base64,",
			wantErr: true,
		},
		{
			name:    "no comma",
			uri:     "data:application/json;base64",
			wantErr: true,
		},
		{
			name: "plain json",
			uri:  `data:application/json;utf8,{"name":"Midnight Drive","image":"ipfs://QmImgHash","audio":"ipfs://QmAudioHash","description":"late night synthwave"}`,
			want: []byte(`{"name":"Midnight Drive","image":"ipfs://QmImgHash","audio":"ipfs://QmAudioHash","description":"late night synthwave"}`),
		},
		{
			name: "base64 json",
			uri:  "data:application/json;base64,eyJuYW1lIjoiTWlkbmlnaHQgRHJpdmUifQ==",
			want: []byte(`{"name":"Midnight Drive"}`),
		},
		{
			name: "base64 binary",
			uri:  "data:audio/mpeg;base64,SUQzBAA=",
			want: []byte{0x49, 0x44, 0x33, 0x04, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDataUriReaderRepo()
			ctx := bCtx.Background()
			got, err := r.Get(ctx, tt.uri)
			if (err != nil) != tt.wantErr {
				t.Errorf("dataUriReaderRepo.Get() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dataUriReaderRepo.Get() = %v, want %v", got, tt.want)
			}
		})
	}
}
