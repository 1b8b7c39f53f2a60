package video

// SpritePriorityBuffer resolves DMG sprite-to-pixel ownership: the
// sprite with the lowest X wins a pixel, ties broken by the lower OAM
// index. Claiming ownership per-pixel during the selection phase
// avoids sorting the scanline's sprite list before drawing.
type SpritePriorityBuffer struct {
	ownerIndex [FramebufferWidth]int
	ownerX     [FramebufferWidth]int
}

// Clear resets ownership for a new scanline.
func (s *SpritePriorityBuffer) Clear() {
	for i := range FramebufferWidth {
		s.ownerIndex[i] = -1
		s.ownerX[i] = 0xFF
	}
}

// TryClaimPixel attempts to claim pixelX for spriteIndex at spriteX,
// returning whether it won priority.
func (s *SpritePriorityBuffer) TryClaimPixel(pixelX, spriteIndex, spriteX int) bool {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return false
	}

	currentOwner := s.ownerIndex[pixelX]
	if currentOwner == -1 {
		s.ownerIndex[pixelX], s.ownerX[pixelX] = spriteIndex, spriteX
		return true
	}

	currentX := s.ownerX[pixelX]
	if spriteX < currentX || (spriteX == currentX && spriteIndex < currentOwner) {
		s.ownerIndex[pixelX], s.ownerX[pixelX] = spriteIndex, spriteX
		return true
	}

	return false
}

// GetPriority returns the OAM index owning pixelX, or -1.
func (s *SpritePriorityBuffer) GetPriority(pixelX int) int {
	if pixelX < 0 || pixelX >= FramebufferWidth {
		return -1
	}
	return s.ownerIndex[pixelX]
}
