package main

import "umddining-backend/cmd/dining-cli/cmd"

func main() {
	cmd.Execute()
}
