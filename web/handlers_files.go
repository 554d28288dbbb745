package web

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/hazyhaar/morph/docpipe"
	"github.com/hazyhaar/morph/media"
	"github.com/hazyhaar/morph/sanitize"
	"github.com/hazyhaar/morph/shield"
	"github.com/hazyhaar/morph/staging"
)

// stageUpload validates the uploaded file against allowed extensions and
// writes it into a fresh staging dir as input.<ext>. Caller must Close the
// returned stage.
func (s *Server) stageUpload(r *http.Request, field string, allowed map[string]bool) (*staging.Dir, string, error) {
	if err := r.ParseMultipartForm(s.cfg.MultipartMemory); err != nil {
		return nil, "", fmt.Errorf("%w: %v", sanitize.ErrMissingFile, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", sanitize.ErrMissingFile
	}
	defer file.Close()

	safe, err := sanitize.CheckExtension(header.Filename, allowed)
	if err != nil {
		return nil, "", err
	}

	stage, err := staging.New(s.cfg.StagingBase, shield.GetLogger(r.Context()))
	if err != nil {
		return nil, "", err
	}

	inputPath, err := copyToStage(stage, file, "input."+sanitize.Extension(safe))
	if err != nil {
		stage.Close()
		return nil, "", err
	}
	return stage, inputPath, nil
}

func copyToStage(stage *staging.Dir, src multipart.File, name string) (string, error) {
	path, err := stage.Path(name)
	if err != nil {
		return "", err
	}
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

// handleText converts a document upload to the requested target format.
// Fields: file, target_format.
func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	stage, inputPath, err := s.stageUpload(r, "file", sanitize.TextExtensions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer stage.Close()

	target := strings.ToLower(r.FormValue("target_format"))
	if target == "" || !sanitize.TextExtensions[target] {
		writeError(w, r, fmt.Errorf("%w: target %q", docpipe.ErrUnsupportedFormat, target))
		return
	}

	outPath, err := s.pipe.Convert(r.Context(), stage, inputPath, docpipe.Format(target))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: read output: %v", docpipe.ErrConversionFailed, err))
		return
	}

	streamFile(w, data, "application/"+target, "converted_document."+target)
}

// handleImage converts an image upload. Fields: image, format, compression,
// filename.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	stage, inputPath, err := s.stageUpload(r, "image", sanitize.ImageExtensions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer stage.Close()

	target := strings.ToLower(r.FormValue("format"))

	quality := 0
	provided := false
	if raw := r.FormValue("compression"); raw != "" {
		if q, err := strconv.Atoi(raw); err == nil {
			quality = q
			provided = true
		}
	}

	outPath, err := s.media.ConvertImage(r.Context(), stage, inputPath, target, media.ClampQuality(quality, provided))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		writeError(w, r, fmt.Errorf("read output: %w", err))
		return
	}

	name := r.FormValue("filename")
	if name == "" {
		name = "converted_image"
	}
	streamFile(w, data, "image/"+target, name+"."+target)
}

// handleAudio converts an audio upload. Fields: audio, format, filename.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	stage, inputPath, err := s.stageUpload(r, "audio", sanitize.AudioExtensions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer stage.Close()

	target := strings.ToLower(r.FormValue("format"))
	outPath, err := s.media.ConvertAudio(r.Context(), stage, inputPath, target)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		writeError(w, r, fmt.Errorf("read output: %w", err))
		return
	}

	name := r.FormValue("filename")
	if name == "" {
		name = "converted_audio"
	}
	streamFile(w, data, "audio/"+target, name+"."+target)
}

// handleVideo converts a video upload. Fields: file, targetFormat, quality.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	stage, inputPath, err := s.stageUpload(r, "file", sanitize.VideoExtensions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer stage.Close()

	target := strings.ToLower(r.FormValue("targetFormat"))
	quality := r.FormValue("quality")

	outPath, err := s.media.ConvertVideo(r.Context(), stage, inputPath, target, quality)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		writeError(w, r, fmt.Errorf("read output: %w", err))
		return
	}

	streamFile(w, data, "video/"+target, "converted_video."+target)
}
