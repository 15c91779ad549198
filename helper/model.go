package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
)

// PrepareModel downloads the model if it doesn't exist and returns the model path.
// Model names containing slashes (e.g. "org/model") are sanitized for the
// local directory name. onnxFilePath selects the onnx file inside the model
// repository, empty uses the hugot default.
func PrepareModel(modelName string, onnxFilePath string) (string, error) {
	modelDir := "./models"
	sanitizedName := strings.ReplaceAll(modelName, "/", "_")
	modelPath := filepath.Join(modelDir, sanitizedName)

	// Check if model exists, if not download it
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0750); err != nil {
			return "", fmt.Errorf("failed to create model directory: %w", err)
		}
		downloadOptions := hugot.NewDownloadOptions()
		if onnxFilePath != "" {
			downloadOptions.OnnxFilePath = onnxFilePath
		}
		downloadedPath, err := hugot.DownloadModel(modelName, modelDir, downloadOptions)
		if err != nil {
			return "", fmt.Errorf("failed to download model: %w", err)
		}
		modelPath = downloadedPath
	}

	return modelPath, nil
}
