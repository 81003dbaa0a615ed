package weave

// Version and BuildDate are stamped at link time:
//
//	go build -ldflags "-X github.com/t-eckert/weave.Version=v0.3.0 -X github.com/t-eckert/weave.BuildDate=2026-10-19"
var (
	Version   = "dev"
	BuildDate = "unknown"
)
