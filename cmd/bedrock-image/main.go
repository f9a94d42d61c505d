package main

import "github.com/Yaksh36/mcp-server-bedrock-image/internal/cli"

func main() {
	cli.Execute()
}
