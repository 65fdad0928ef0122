//go:build windows && amd64

package driverload

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/mgr"
)

// loaderState is one node of the extract/install/start/open state
// machine from original_source/inpout/src/loader.rs's Self::load.
type loaderState int

const (
	stateOpenDevice loaderState = iota
	stateOpenService
	stateExtractFile
	stateCreateService
	stateStartService
	stateDeleteService
	stateSuccess
	stateFailure
)

// Loader extracts driverBytes to disk and registers/starts it as a
// kernel-mode service on first use, then opens its device handle.
// driverBytes is supplied by the caller rather than embedded, since no
// real signed driver binary ships with this module.
type Loader struct {
	driverBytes    []byte
	devicePath     string
	outputPath     string
	pendingService *mgr.Service
}

// NewLoader configures a Loader for a driver whose .sys bytes are
// driverBytes, registered under outputPath and exposing devicePath
// (e.g. `\\.\beesynthport`) once started.
func NewLoader(driverBytes []byte, outputPath, devicePath string) *Loader {
	return &Loader{driverBytes: driverBytes, devicePath: devicePath, outputPath: outputPath}
}

func (l *Loader) extractDriver() (string, error) {
	if _, err := os.Stat(l.outputPath); err == nil {
		return l.outputPath, nil
	}
	if err := os.WriteFile(l.outputPath, l.driverBytes, 0o644); err != nil {
		return "", err
	}
	return l.outputPath, nil
}

func (l *Loader) openDevice() (windows.Handle, error) {
	pathPtr, err := windows.UTF16PtrFromString(l.devicePath)
	if err != nil {
		return 0, err
	}
	return windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
}

// Load runs the state machine: try opening the device directly; if that
// fails, try starting an already-registered service; if that fails,
// extract the driver and register a fresh service; retry until the
// device opens or a step fails unrecoverably.
func (l *Loader) Load() (windows.Handle, error) {
	scm, err := mgr.Connect()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOpenSCM, err)
	}
	defer scm.Disconnect()

	state := stateOpenDevice
	var driverPath string
	var loadErr error

	for {
		switch state {
		case stateOpenDevice:
			handle, err := l.openDevice()
			if err == nil {
				return handle, nil
			}
			state = stateOpenService

		case stateOpenService:
			svc, err := scm.OpenService(ServiceName)
			if err != nil {
				state = stateExtractFile
				continue
			}
			if err := l.startAndClose(svc); err != nil {
				state = stateDeleteService
				l.pendingService = svc
				continue
			}
			state = stateOpenDevice

		case stateExtractFile:
			path, err := l.extractDriver()
			if err != nil {
				loadErr = fmt.Errorf("%w: %v", ErrUnpack, err)
				state = stateFailure
				continue
			}
			driverPath = path
			state = stateCreateService

		case stateCreateService:
			if driverPath == "" {
				loadErr = ErrInvalidPath
				state = stateFailure
				continue
			}
			svc, err := scm.CreateService(ServiceName, driverPath, mgr.Config{
				ServiceType: windows.SERVICE_KERNEL_DRIVER,
				StartType:   mgr.StartManual,
			})
			if err != nil {
				loadErr = fmt.Errorf("%w: %v", ErrCreateService, err)
				state = stateFailure
				continue
			}
			if err := l.startAndClose(svc); err != nil {
				l.pendingService = svc
				state = stateDeleteService
				continue
			}
			state = stateOpenDevice

		case stateDeleteService:
			svc := l.pendingService
			l.pendingService = nil
			if err := svc.Delete(); err != nil {
				svc.Close()
				loadErr = fmt.Errorf("%w: %v", ErrDeleteService, err)
				state = stateFailure
				continue
			}
			svc.Close()
			state = stateExtractFile

		case stateFailure:
			return 0, loadErr
		}
	}
}

func (l *Loader) startAndClose(svc *mgr.Service) error {
	defer svc.Close()
	return svc.Start()
}
