package enrollment

import (
	"fmt"
	"time"
)

const clientDownloadURL = "https://github.com/infra-neo/netbird-rebrand/releases/latest/download/neogenesys-client-installer.exe"

// InstallScript renders the PowerShell installer handed to the enrolling
// device. The setup key is embedded verbatim; the script is returned to the
// authenticated caller only.
func InstallScript(setupKey, deviceName string) string {
	return fmt.Sprintf(`# Neogenesys Network Client Installation Script
# Device: %s
# Generated: %s

$clientUrl = "%s"
$installerPath = "$env:TEMP\neogenesys-installer.exe"

Write-Host "Downloading Neogenesys Network Client..." -ForegroundColor Cyan
Invoke-WebRequest -Uri $clientUrl -OutFile $installerPath

Write-Host "Installing client..." -ForegroundColor Cyan
Start-Process -FilePath $installerPath -ArgumentList "/S", "/setupkey=%s", "/name=%s" -Wait

Write-Host "Installation complete!" -ForegroundColor Green
Write-Host "Your device is now enrolling in the Neogenesys network..." -ForegroundColor Cyan

Remove-Item $installerPath -Force

Write-Host "Done! The Neogenesys Network Client is now running." -ForegroundColor Green`,
		deviceName,
		time.Now().UTC().Format(time.RFC3339),
		clientDownloadURL,
		setupKey,
		deviceName,
	)
}
