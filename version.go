package lumedb

// Version is the running LumeDB version. Release builds override it at
// link time:
//
//	go build -ldflags "-X github.com/wizardsarehere/LumeDB.Version=1.2.3"
var Version = "0.1.0"
