//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>

// AppKit objects may only be touched on the main thread. Calls arriving
// from the UI bridge run on a goroutine, so hop over synchronously.
static void onMain(void (^block)(void)) {
    if ([NSThread isMainThread]) {
        block();
    } else {
        dispatch_sync(dispatch_get_main_queue(), block);
    }
}

static int applyCosmetics(void *handle, int translucent, int fullSize) {
    __block int ok = 0;
    onMain(^{
        id obj = (__bridge id)handle;
        if (![obj isKindOfClass:[NSWindow class]]) {
            return;
        }
        NSWindow *window = (NSWindow *)obj;

        window.titlebarAppearsTransparent = YES;
        [window setRestorable:YES];
        if (fullSize) {
            window.styleMask |= NSWindowStyleMaskFullSizeContentView;
        }

        if (translucent) {
            window.opaque = NO;
            window.backgroundColor = [NSColor clearColor];

            NSView *content = window.contentView;
            BOOL hasEffect = NO;
            for (NSView *sub in content.subviews) {
                if ([sub isKindOfClass:[NSVisualEffectView class]]) {
                    hasEffect = YES;
                    break;
                }
            }
            if (!hasEffect) {
                NSVisualEffectView *effect = [[NSVisualEffectView alloc] initWithFrame:content.bounds];
                effect.autoresizingMask = NSViewWidthSizable | NSViewHeightSizable;
                effect.blendingMode = NSVisualEffectBlendingModeBehindWindow;
                effect.material = NSVisualEffectMaterialUnderWindowBackground;
                effect.state = NSVisualEffectStateFollowsWindowActiveState;
                [content addSubview:effect positioned:NSWindowBelow relativeTo:nil];
                [effect release];
            }
        }
        ok = 1;
    });
    return ok;
}

static int setTitlebar(void *handle, int show) {
    __block int ok = 0;
    onMain(^{
        id obj = (__bridge id)handle;
        if (![obj isKindOfClass:[NSWindow class]]) {
            return;
        }
        NSWindow *window = (NSWindow *)obj;
        window.titlebarAppearsTransparent = show ? NO : YES;
        window.titleVisibility = show ? NSWindowTitleVisible : NSWindowTitleHidden;
        ok = 1;
    });
    return ok;
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

var errNotWindow = errors.New("platform: handle is not an NSWindow")

type darwin struct{}

// Native returns the implementation for the running OS.
func Native() Platform { return darwin{} }

func (darwin) Name() string { return "darwin" }

func (darwin) ApplyCosmetics(handle uintptr, opts Cosmetics) error {
	if handle == 0 {
		return ErrNoHandle
	}
	if C.applyCosmetics(unsafe.Pointer(handle), cBool(opts.Translucent), cBool(opts.FullSizeContent)) == 0 {
		return errNotWindow
	}
	return nil
}

func (darwin) SetTitlebar(handle uintptr, show bool) error {
	if handle == 0 {
		return ErrNoHandle
	}
	if C.setTitlebar(unsafe.Pointer(handle), cBool(show)) == 0 {
		return errNotWindow
	}
	return nil
}

func cBool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
