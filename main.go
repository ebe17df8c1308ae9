/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/shipbid/apiserver/cmd"

func main() {
	cmd.Execute()
}
