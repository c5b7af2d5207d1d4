// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command codec compresses and decompresses DEFLATE, GZip and ZLib streams,
// packs and unpacks ZIP archives, and benchmarks the codecs in this module
// against other implementations.
//
// Example usage:
//	$ codec gzip -i twain.txt -o twain.txt.gz
//	$ codec gunzip < twain.txt.gz
//	$ codec zip out.zip a.txt b/c.txt
//	$ codec unzip out.zip --dir=extracted --match='b/*'
//	$ codec bench --formats=fl,gz --tests=ratio --files=repeats.gen
//
// Every flag may also be set through an environment variable prefixed with
// CCZ_, for example CCZ_DEBUG=true. A .env file in the working directory is
// loaded first.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const envVarPrefix = "CCZ"

// VERSION gets set during build
var VERSION = "0.0.0"

// globals are the collaborators shared by every command.
type globals struct {
	Stdin  io.Reader
	Stdout io.Writer
	Log    logrus.FieldLogger
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("codec"),
		kong.Description("DEFLATE, GZip, ZLib and ZIP codec tool"),
		kong.UsageOnError(),
		kong.DefaultEnvars(envVarPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": VERSION,
		},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	// Attempt to load .env
	_ = godotenv.Load(".env")

	cli := &CLI{}
	parser, err := newParser(cli)
	if err != nil {
		logrus.Fatalf("unable to create parser: %s", err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.Debug {
		logrus.Info("debug mode enabled")
		logrus.SetLevel(logrus.DebugLevel)
	}

	g := &globals{Stdin: os.Stdin, Stdout: os.Stdout, Log: logrus.StandardLogger()}
	if err := ctx.Run(g); err != nil {
		logrus.Errorf("error running %s: %s", ctx.Command(), err)
		os.Exit(1)
	}
}
