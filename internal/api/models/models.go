// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/smazurov/avconv/internal/encoders"
	"github.com/smazurov/avconv/internal/ffmpeg"
	"github.com/smazurov/avconv/internal/logging"
	"github.com/smazurov/avconv/internal/metrics"
	"github.com/smazurov/avconv/internal/profiles"
	"github.com/smazurov/avconv/internal/types"
	"github.com/smazurov/avconv/internal/version"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}

// Codec models
type CodecsData struct {
	Codecs []encoders.CodecInfo `json:"codecs" doc:"Supported codecs in catalogue order"`
	Count  int                  `json:"count" example:"30" doc:"Number of codecs"`
}

type CodecsResponse struct {
	Body CodecsData
}

type CodecsByKindRequest struct {
	Kind string `path:"kind" enum:"audio,video,subtitle,a,v,s" doc:"Stream kind"`
}

type CodecRequest struct {
	Kind  string `path:"kind" enum:"audio,video,subtitle,a,v,s" doc:"Stream kind"`
	Codec string `path:"codec" example:"h264" doc:"Codec identifier"`
}

type CodecResponse struct {
	Body encoders.CodecInfo
}

// Compile models
type CompileRequest struct {
	Body encoders.Job
}

type CompileData struct {
	encoders.JobResult
	Args        []string           `json:"args" doc:"Audio, video and subtitle arguments concatenated"`
	Diagnostics []types.Diagnostic `json:"diagnostics" doc:"Options dropped or substituted"`
}

type CompileResponse struct {
	Body CompileData
}

// Options models for ffmpeg input flags
type OptionsData struct {
	Options []ffmpeg.Option `json:"options" doc:"All available ffmpeg input options with metadata"`
}

type OptionsResponse struct {
	Body OptionsData
}

// Profile models
type ProfilesData struct {
	Profiles []profiles.Profile `json:"profiles" doc:"Profiles sorted by name"`
	Count    int                `json:"count" doc:"Number of profiles"`
}

type ProfilesResponse struct {
	Body ProfilesData
}

type ProfileRequest struct {
	Name string `path:"name" example:"web" doc:"Profile name"`
}

type ProfileResponse struct {
	Body profiles.Profile
}

type ProfilePutRequest struct {
	Name string           `path:"name" example:"web" doc:"Profile name"`
	Body profiles.Profile
}

type ProfileCommandRequest struct {
	Name string `path:"name" example:"web" doc:"Profile name"`
	Body ProfileCommandInput
}

type ProfileCommandInput struct {
	Input  string          `json:"input" minLength:"1" example:"in.mkv" doc:"Input file"`
	Output string          `json:"output" minLength:"1" example:"out.mp4" doc:"Output file"`
	Source profiles.Source `json:"source,omitempty" doc:"Known properties of the input"`
}

type ProfileCommandData struct {
	profiles.Command
	CommandLine string             `json:"command_line" doc:"Shell quoted command line"`
	Diagnostics []types.Diagnostic `json:"diagnostics" doc:"Options dropped or substituted"`
}

type ProfileCommandResponse struct {
	Body ProfileCommandData
}

// Stats models
type StatsData struct {
	Codecs []metrics.CodecStats `json:"codecs" doc:"Totals per codec since start"`
}

type StatsResponse struct {
	Body StatsData
}

// Log models
type LogsRequest struct {
	Limit  int    `query:"limit" default:"100" minimum:"0" maximum:"10000" doc:"Maximum entries returned, newest kept"`
	Level  string `query:"level" default:"debug" enum:"debug,info,warn,error" doc:"Minimum level"`
	Module string `query:"module" doc:"Only entries of this module"`
}

type LogsData struct {
	Entries []logging.Entry `json:"entries" doc:"Log entries, oldest first"`
}

type LogsResponse struct {
	Body LogsData
}
