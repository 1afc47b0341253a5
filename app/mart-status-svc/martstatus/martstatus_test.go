package martstatus

import (
	"io"
	"log"
	"testing"

	"github.com/matryer/is"
)

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Conf
		wantErr bool
	}{
		{
			name: "defaults",
			conf: Conf{HttpPort: 8080, MartBatchSubject: "marts", ExpireMartSeconds: 172800, ExpireCheckSeconds: 300},
		},
		{
			name:    "zero expire check seconds",
			conf:    Conf{ExpireMartSeconds: 172800, ExpireCheckSeconds: 0},
			wantErr: true,
		},
		{
			name:    "negative expire check seconds",
			conf:    Conf{ExpireMartSeconds: 172800, ExpireCheckSeconds: -1},
			wantErr: true,
		},
		{
			name:    "zero expire mart seconds",
			conf:    Conf{ExpireMartSeconds: 0, ExpireCheckSeconds: 300},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			err := tt.conf.Validate()
			is.Equal(err != nil, tt.wantErr)
		})
	}
}

func TestStartServices_rejectsInvalidConf(t *testing.T) {
	is := is.New(t)
	err := StartServices(log.New(io.Discard, "", 0), nil, nil,
		Conf{ExpireMartSeconds: 172800, ExpireCheckSeconds: 0}, nil)
	is.True(err != nil)
}
