package main

import "github.com/divijg19/jnienv/internal/cli"

func main() {
	cli.ExecuteEntrypoint()
}
